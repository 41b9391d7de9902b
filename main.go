package main

import (
	"os"

	"github.com/hongduc/quiz11/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
