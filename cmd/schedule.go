package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/schedule"
	"github.com/abhisek/edumate/internal/ui/render"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage classes and assignments",
}

var addClassCmd = &cobra.Command{
	Use:   "add-class",
	Short: "Add a weekly class",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var in schedule.ClassInput
		in.Name, _ = f.GetString("name")
		in.Day, _ = f.GetString("day")
		in.StartTime, _ = f.GetString("start")
		in.EndTime, _ = f.GetString("end")
		in.Subject, _ = f.GetString("subject")
		in.Room, _ = f.GetString("room")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			id, err := a.Schedule.AddClass(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd, map[string]string{"id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Added %s on %s %s-%s (id %s)\n", in.Name, in.Day, in.StartTime, in.EndTime, id)
			})
		})
	},
}

var addAssignmentCmd = &cobra.Command{
	Use:   "add-assignment",
	Short: "Add an assignment",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var in schedule.AssignmentInput
		in.Title, _ = f.GetString("title")
		in.Subject, _ = f.GetString("subject")
		in.DueDate, _ = f.GetString("due")
		in.Description, _ = f.GetString("description")
		in.Points, _ = f.GetInt("points")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			id, err := a.Schedule.AddAssignment(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd, map[string]string{"id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Added %q due %s (id %s)\n", in.Title, in.DueDate, id)
			})
		})
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List pending assignments due soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			up, err := a.Schedule.Upcoming(ctx, days)
			if err != nil {
				return err
			}
			return emit(cmd, up, func(w io.Writer) { render.Upcoming(w, up) })
		})
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List today's classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			classes, err := a.Schedule.Today(ctx)
			if err != nil {
				return err
			}
			return emit(cmd, classes, func(w io.Writer) { render.Classes(w, "Today's classes", classes) })
		})
	},
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the weekly timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			classes, err := a.Schedule.Classes(ctx)
			if err != nil {
				return err
			}
			return emit(cmd, classes, func(w io.Writer) { render.Classes(w, "Weekly timetable", classes) })
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <assignment-id>",
	Short: "Mark an assignment completed and award points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		if student == "" {
			return fmt.Errorf("--student is required")
		}
		var score *int
		if cmd.Flags().Changed("score") {
			v, _ := cmd.Flags().GetInt("score")
			if v < 0 || v > 100 {
				return fmt.Errorf("--score must be between 0 and 100, got %d", v)
			}
			score = &v
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Schedule.Complete(ctx, args[0], student, rewards.KindStudent, score)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) { render.Completion(w, res) })
		})
	},
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Find overlapping classes and review the workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			c, err := a.Schedule.Conflicts(ctx)
			if err != nil {
				return err
			}
			return emit(cmd, c, func(w io.Writer) { render.Conflicts(w, c) })
		})
	},
}

var suggestTimeCmd = &cobra.Command{
	Use:   "suggest-time <subject>",
	Short: "Suggest a free slot for a new class",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, _ := cmd.Flags().GetInt("minutes")
		subject := joinWords(args)
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			s, err := a.Schedule.SuggestTime(ctx, subject, minutes)
			if err != nil {
				return err
			}
			return emit(cmd, s, func(w io.Writer) { render.TimeSuggestion(w, s) })
		})
	},
}

func init() {
	f := addClassCmd.Flags()
	f.String("name", "", "Class name")
	f.String("day", "", "Day of the week, e.g. Monday")
	f.String("start", "", "Start time, HH:MM")
	f.String("end", "", "End time, HH:MM")
	f.String("subject", "", "Subject")
	f.String("room", "", "Room")

	f = addAssignmentCmd.Flags()
	f.String("title", "", "Assignment title")
	f.String("subject", "", "Subject")
	f.String("due", "", "Due date, YYYY-MM-DD")
	f.String("description", "", "Description")
	f.Int("points", 0, "Points awarded on completion (default 10)")

	upcomingCmd.Flags().IntP("days", "d", 7, "Window in days")

	completeCmd.Flags().String("student", "", "Student who completed the assignment")
	completeCmd.Flags().Int("score", 0, "Score out of 100; 90 or more counts as a high score (omit if unscored)")

	suggestTimeCmd.Flags().Int("minutes", 60, "Class length in minutes")

	scheduleCmd.AddCommand(addClassCmd, addAssignmentCmd, upcomingCmd, todayCmd, classesCmd,
		completeCmd, conflictsCmd, suggestTimeCmd)
	rootCmd.AddCommand(scheduleCmd)
}
