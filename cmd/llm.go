package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hongduc/quiz11/internal/llm"
	"github.com/hongduc/quiz11/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect question-generation requests sent to the LLM",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failed {
			events = onlyFailed(events)
		}
		printLLMEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func onlyFailed(events []store.LLMEvent) []store.LLMEvent {
	var out []store.LLMEvent
	for _, e := range events {
		if !e.Success {
			out = append(out, e)
		}
	}
	return out
}

const timeLayout = "2006-01-02 15:04:05"

func printLLMEvents(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-13s  %-26s  %6s  %6s  %7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Result")
	fmt.Fprintln(w, strings.Repeat("─", 104))
	for _, e := range events {
		result := "ok"
		if !e.Success {
			result = "failed: " + truncate(e.ErrorMessage, 40)
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-13s  %-26s  %6d  %6d  %7d  %s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), truncate(e.Purpose, 13), truncate(e.Model, 26),
			e.InputTokens, e.OutputTokens, e.LatencyMs, result)
	}
}

func printLLMEvent(w io.Writer, e *store.LLMEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-10s %s\n", f[0]+":", f[1])
	}

	sep := strings.Repeat("─", 60)
	for _, part := range [][2]string{{"REQUEST", e.RequestBody}, {"RESPONSE", e.ResponseBody}} {
		fmt.Fprintf(w, "\n%s\n%s\n%s\n", sep, part[0], sep)
		fmt.Fprintln(w, orNotCaptured(part[1]))
	}
}

func printUsage(w io.Writer, byPurpose []store.LLMUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	rule := strings.Repeat("─", 72)
	fmt.Fprintf(w, "Usage by Purpose\n%s\n", rule)
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n%s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms", rule)

	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintf(w, "%s\n%-16s  %6d  %10d  %10d  %10d\n", rule, "TOTAL", calls, in, out, in+out)

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintf(w, "\nEstimated Cost (USD)\n%s\n", rule)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n%s\n", "Model", "Calls", "Input", "Output", "Cost", rule)

	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n", truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%s\n%-32s  %6s  %10s  %10s  %10s\n", rule, label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func orNotCaptured(body string) string {
	if body == "" {
		return "(not captured)"
	}
	return body
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. question-gen)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
