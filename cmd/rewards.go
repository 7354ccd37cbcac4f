package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/ui/render"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Points, badges and leaderboards",
}

var pointsCmd = &cobra.Command{
	Use:   "points <user> <points>",
	Short: "Award points to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		points, err := strconv.Atoi(args[1])
		if err != nil || points < 0 {
			return fmt.Errorf("points must be a non-negative integer, got %q", args[1])
		}
		reason, _ := cmd.Flags().GetString("reason")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Rewards.AddPoints(ctx, args[0], kind, points, reason)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) { render.Points(w, res) })
		})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top users",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			board, err := a.Rewards.Leaderboard(ctx, kind, top)
			if err != nil {
				return err
			}
			return emit(cmd, board, func(w io.Writer) { render.Leaderboard(w, kind, board) })
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile [user]",
	Short: "Show a user's points and badges (default: yourself)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			userID, kind, err := subject(cmd, args, a)
			if err != nil {
				return err
			}
			p, err := a.Rewards.Profile(ctx, userID, kind)
			if err != nil {
				return err
			}
			return emit(cmd, p, func(w io.Writer) { render.Profile(w, p) })
		})
	},
}

var rewardSuggestCmd = &cobra.Command{
	Use:   "suggest [user]",
	Short: "Suggest ways for a user to earn more points (default: yourself)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			userID, kind, err := subject(cmd, args, a)
			if err != nil {
				return err
			}
			s, err := a.Rewards.Suggest(ctx, userID, kind)
			if err != nil {
				return err
			}
			return emit(cmd, s, func(w io.Writer) { render.RewardSuggestion(w, s) })
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the leaderboard to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = string(kind) + "-leaderboard.xlsx"
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := a.Rewards.ExportLeaderboard(ctx, f, kind); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		})
	},
}

// kindFlag reads --kind, which is student unless set.
func kindFlag(cmd *cobra.Command) (rewards.Kind, error) {
	v, _ := cmd.Flags().GetString("kind")
	kind, ok := rewards.ParseKind(v)
	if !ok {
		return "", fmt.Errorf("--kind must be student or teacher, got %q", v)
	}
	return kind, nil
}

// subject resolves the user a command is about: the argument with --kind,
// or the configured user.
func subject(cmd *cobra.Command, args []string, a *app.App) (string, rewards.Kind, error) {
	if len(args) == 0 {
		return a.User.ID, a.User.Kind, nil
	}
	kind, err := kindFlag(cmd)
	return args[0], kind, err
}

func init() {
	for _, c := range []*cobra.Command{pointsCmd, leaderboardCmd, profileCmd, rewardSuggestCmd, exportCmd} {
		c.Flags().StringP("kind", "k", "student", "User kind: student or teacher")
	}
	pointsCmd.Flags().StringP("reason", "r", "Manual award", "Reason recorded in the history")
	leaderboardCmd.Flags().Int("top", 10, "Number of users to show")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default <kind>-leaderboard.xlsx)")

	rewardsCmd.AddCommand(pointsCmd, leaderboardCmd, profileCmd, rewardSuggestCmd, exportCmd)
	rootCmd.AddCommand(rewardsCmd)
}
