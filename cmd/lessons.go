package cmd

import (
	"fmt"
	"strings"

	"github.com/hongduc/quiz11/internal/catalog"
	"github.com/spf13/cobra"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List chapters and lessons available for quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat := catalog.Default()
		if cfg.Catalog != "" {
			if cat, err = catalog.Load(cfg.Catalog); err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
		}

		for _, ch := range cat.Chapters {
			fmt.Println(ch.Title)
			for _, l := range ch.Lessons {
				fmt.Printf("  %s\n", l)
			}
		}

		counts := make([]string, len(cat.QuestionCounts))
		for i, n := range cat.QuestionCounts {
			counts[i] = fmt.Sprint(n)
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%d chapters, %d lessons. Question counts: %s (default %d)\n",
			len(cat.Chapters), cat.LessonCount(), strings.Join(counts, ", "), cat.DefaultCount)
		return nil
	},
}
