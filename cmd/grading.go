package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/grading"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/ui/render"
	"github.com/abhisek/edumate/internal/validate"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade an answer against a reference solution",
	Long: `Grade a typed answer (--answer) or a photo or scan of one (--image)
against the correct answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, _ := cmd.Flags().GetString("answer")
		image, _ := cmd.Flags().GetString("image")
		correct, _ := cmd.Flags().GetString("correct")
		subject, _ := cmd.Flags().GetString("subject")
		maxScore, _ := cmd.Flags().GetInt("max-score")

		if (answer == "") == (image == "") {
			return fmt.Errorf("exactly one of --answer or --image is required")
		}

		if image != "" {
			data, err := os.ReadFile(image)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			if correct == "" || subject == "" {
				return fmt.Errorf("--correct and --subject are required")
			}
			req := grading.ImageGradeRequest{Image: data, CorrectAnswer: correct, Subject: subject, MaxScore: maxScore}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res := a.Grading.GradeImage(ctx, req)
				a.CreditTeacher(ctx, rewards.StatsDelta{GradedCount: 1})
				return emit(cmd, res, func(w io.Writer) { render.Grade(w, res, maxScore) })
			})
		}

		req := grading.GradeRequest{StudentAnswer: answer, CorrectAnswer: correct, Subject: subject, MaxScore: maxScore}
		if err := validate.Struct(req); err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res := a.Grading.Grade(ctx, req)
			a.CreditTeacher(ctx, rewards.StatsDelta{GradedCount: 1})
			return emit(cmd, res, func(w io.Writer) { render.Grade(w, res, maxScore) })
		})
	},
}

var hintsCmd = &cobra.Command{
	Use:   "hints [answer]",
	Short: "Get self-evaluation hints without revealing the answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		if subject == "" {
			return fmt.Errorf("--subject is required")
		}
		answer, err := readInput(cmd, args, "answer")
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			h := a.Grading.Hints(ctx, answer, subject)
			return emit(cmd, h, func(w io.Writer) { render.Hints(w, h) })
		})
	},
}

func init() {
	gradeCmd.Flags().StringP("answer", "a", "", "Student answer text")
	gradeCmd.Flags().String("image", "", "Path to an image of the student answer")
	gradeCmd.Flags().StringP("correct", "c", "", "Correct answer or rubric")
	gradeCmd.Flags().StringP("subject", "s", "", "Subject, e.g. Mathematics")
	gradeCmd.Flags().Int("max-score", 10, "Maximum score")

	hintsCmd.Flags().StringP("subject", "s", "", "Subject, e.g. Mathematics")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(hintsCmd)
}
