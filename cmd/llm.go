package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/store"
	"github.com/abhisek/edumate/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged model requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			events, err := a.Store.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if purpose != "" {
				kept := events[:0]
				for _, e := range events {
					if e.Purpose == purpose {
						kept = append(kept, e)
					}
				}
				events = kept
			}
			return emit(cmd, events, func(w io.Writer) { printEvents(w, events) })
		})
	},
}

func printEvents(w io.Writer, events []store.LLMEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No model requests logged.")
		return
	}
	t := llmTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		ok := theme.Good.Render("✓")
		if !e.Success {
			ok = theme.Bad.Render("✗")
		}
		t.Row(strconv.Itoa(e.ID), e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Purpose,
			truncate(e.Model, 28), strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10), ok)
	}
	fmt.Fprintln(w, t.String())
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			e, err := a.Store.EventRepo().GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			return emit(cmd, e, func(w io.Writer) { printEvent(w, e) })
		})
	},
}

func printEvent(w io.Writer, e *store.LLMEventRecord) {
	row := func(label string, v any) {
		fmt.Fprintf(w, "%s %v\n", theme.Label.Render(fmt.Sprintf("%-9s", label+":")), v)
	}
	row("ID", e.ID)
	row("Time", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	row("Provider", e.Provider)
	row("Model", e.Model)
	row("Purpose", e.Purpose)
	row("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	row("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	row("Success", e.Success)
	if e.ErrorMessage != "" {
		row("Error", theme.Bad.Render(e.ErrorMessage))
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Subtitle.Render(part.title))
		fmt.Fprintln(w, theme.Label.Render(strings.Repeat("─", 60)))
		if part.body == "" {
			fmt.Fprintln(w, theme.Hint.Render("(not captured)"))
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

// usageRow is one line of the usage summary.
type usageRow struct {
	Purpose      string   `json:"purpose"`
	Model        string   `json:"model"`
	Requests     int      `json:"requests"`
	Failures     int      `json:"failures"`
	InputTokens  int      `json:"input_tokens"`
	OutputTokens int      `json:"output_tokens"`
	CostUSD      *float64 `json:"cost_usd"` // nil when the model has no known price
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per feature",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			usage, err := a.Store.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			rows := make([]usageRow, 0, len(usage))
			for _, u := range usage {
				r := usageRow{
					Purpose: u.Purpose, Model: u.Model, Requests: u.Requests, Failures: u.Failures,
					InputTokens: u.InputTokens, OutputTokens: u.OutputTokens,
				}
				if cost := llm.LookupCost(u.Model); cost != nil {
					c := cost.Cost(u.InputTokens, u.OutputTokens)
					r.CostUSD = &c
				}
				rows = append(rows, r)
			}
			return emit(cmd, rows, func(w io.Writer) { printUsage(w, rows) })
		})
	},
}

func printUsage(w io.Writer, rows []usageRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No model usage recorded yet.")
		return
	}

	t := llmTable("Purpose", "Model", "Calls", "Failed", "Input", "Output", "Cost")
	var (
		calls, in, out int
		total          float64
		unpriced       []string
	)
	for _, r := range rows {
		cost := "?"
		if r.CostUSD != nil {
			cost = formatCost(*r.CostUSD)
			total += *r.CostUSD
		} else {
			unpriced = append(unpriced, r.Model)
		}
		t.Row(r.Purpose, truncate(r.Model, 32), strconv.Itoa(r.Requests), strconv.Itoa(r.Failures),
			strconv.Itoa(r.InputTokens), strconv.Itoa(r.OutputTokens), cost)
		calls += r.Requests
		in += r.InputTokens
		out += r.OutputTokens
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	t.Row(label, "", strconv.Itoa(calls), "", strconv.Itoa(in), strconv.Itoa(out), formatCost(total))
	fmt.Fprintln(w, t.String())

	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func llmTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Label).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Value.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. grading, recommend, sentiment)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
