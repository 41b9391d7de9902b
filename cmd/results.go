package cmd

import (
	"fmt"
	"strings"

	"github.com/hongduc/quiz11/internal/store"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect the local quiz event log",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quiz events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryQuizEvents(cmd.Context(), store.QueryOpts{Limit: limit, SessionID: session})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No quiz events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-8s  %-13s  %-7s  %-40s  %s\n",
			"ID", "Timestamp", "Session", "Action", "Score", "Lesson", "Detail")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range events {
			score := ""
			if e.Total > 0 {
				score = fmt.Sprintf("%d/%d", e.Score, e.Total)
			}
			fmt.Printf("%-5d  %-19s  %-8s  %-13s  %-7s  %-40s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.SessionID, 8),
				e.Action,
				score,
				truncateRunes(e.Lesson, 40),
				e.Detail,
			)
		}
		return nil
	},
}

// truncateRunes shortens s to max runes; lesson titles are Vietnamese.
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func init() {
	resultsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	resultsListCmd.Flags().StringP("session", "s", "", "Only show events for one session id")

	resultsCmd.AddCommand(resultsListCmd)
}
