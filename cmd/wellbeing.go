package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/ui/render"
	"github.com/abhisek/edumate/internal/wellbeing"
)

type reflection struct {
	Analysis      wellbeing.Analysis         `json:"analysis"`
	Interventions wellbeing.InterventionPlan `json:"interventions"`
}

var reflectCmd = &cobra.Command{
	Use:   "reflect [text]",
	Short: "Record a daily reflection and get suggestions",
	Long:  "Record a daily reflection (from the arguments or stdin), analyse its tone and suggest short self-care activities.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args, "reflection")
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			r := reflection{Analysis: a.Wellbeing.Analyze(ctx, text)}
			r.Interventions = a.Wellbeing.Interventions(ctx, r.Analysis)
			return emit(cmd, r, func(w io.Writer) {
				render.Analysis(w, r.Analysis)
				render.Interventions(w, r.Interventions)
			})
		})
	},
}

var wellbeingCmd = &cobra.Command{
	Use:   "wellbeing",
	Short: "Wellbeing history",
}

var wellbeingReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise recent reflections",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			r, err := a.Wellbeing.Report(ctx, days)
			if err != nil {
				return err
			}
			return emit(cmd, r, func(w io.Writer) { render.Report(w, r) })
		})
	},
}

var peerSupportCmd = &cobra.Command{
	Use:   "peer-support <concern>",
	Short: "Suggest colleagues and conversations for a concern",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concern := joinWords(args)
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p := a.Wellbeing.PeerSupport(ctx, concern)
			return emit(cmd, p, func(w io.Writer) { render.PeerSupport(w, p) })
		})
	},
}

func init() {
	wellbeingReportCmd.Flags().IntP("days", "d", 7, "Number of days to summarise")
	wellbeingCmd.AddCommand(wellbeingReportCmd)

	rootCmd.AddCommand(reflectCmd)
	rootCmd.AddCommand(wellbeingCmd)
	rootCmd.AddCommand(peerSupportCmd)
}
