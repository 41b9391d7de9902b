package cmd

import (
	"fmt"

	"github.com/hongduc/quiz11/internal/app"
	"github.com/hongduc/quiz11/internal/screens/flow"
	"github.com/spf13/cobra"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd.Context(), cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()

	name, _ := cmd.Flags().GetString("name")
	class, _ := cmd.Flags().GetString("class")

	if !d.service.CanSubmit() {
		fmt.Println("Result submission is not configured; scores will only be shown on screen.")
	}

	d.logger.Info("starting tui")
	return app.Run(app.Options{
		Deps: flow.Deps{
			Service:     d.service,
			Catalog:     d.catalog,
			RevealDelay: d.cfg.Quiz.RevealDelay,
			Logger:      d.logger,
		},
		StudentName:  name,
		StudentClass: class,
	})
}
