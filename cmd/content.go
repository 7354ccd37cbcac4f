package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/ui/ask"
	"github.com/abhisek/edumate/internal/ui/render"
	"github.com/abhisek/edumate/internal/validate"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <topic>",
	Short: "Recommend learning resources for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		method, _ := cmd.Flags().GetString("method")
		count, _ := cmd.Flags().GetInt("count")
		req := recommender.RecommendRequest{Topic: joinWords(args), Level: level, Method: method, Count: count}
		if err := validate.Struct(req); err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rec, err := a.Recommender(ctx)
			if err != nil {
				return err
			}
			res, err := rec.Recommend(ctx, req)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) { render.Recommendation(w, req.Topic, res) })
		})
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the knowledge base",
	Long:  "Answer a question from the knowledge base. With -i, open an interactive session instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		topic, _ := cmd.Flags().GetString("topic")
		n, _ := cmd.Flags().GetInt("sources")
		if !interactive && len(args) == 0 {
			return fmt.Errorf("a question is required unless --interactive is set")
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rec, err := a.Recommender(ctx)
			if err != nil {
				return err
			}
			if interactive {
				return ask.Run(ctx, rec, topic, a.User.ID)
			}

			req := recommender.AnswerRequest{Question: joinWords(args), ContextTopic: topic, RetrieveN: n}
			res, err := rec.Answer(ctx, req)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) { render.Answer(w, req.Question, res) })
		})
	},
}

var worksheetCmd = &cobra.Command{
	Use:   "worksheet <topic>",
	Short: "Generate a practice worksheet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		n, _ := cmd.Flags().GetInt("questions")
		answers, _ := cmd.Flags().GetBool("answers")
		req := recommender.WorksheetRequest{Topic: joinWords(args), Difficulty: difficulty, NumQuestions: n}
		if err := validate.Struct(req); err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rec, err := a.Recommender(ctx)
			if err != nil {
				return err
			}
			ws := rec.Worksheet(ctx, req)
			if ws.Title != recommender.WorksheetErrorTitle {
				a.CreditTeacher(ctx, rewards.StatsDelta{MaterialsCreated: 1})
			}
			return emit(cmd, ws, func(w io.Writer) { render.Worksheet(w, ws, answers) })
		})
	},
}

func init() {
	recommendCmd.Flags().StringP("level", "l", "", "Learner level: beginner, intermediate or advanced")
	recommendCmd.Flags().StringP("method", "m", "", "Preferred teaching method, e.g. visual or hands-on")
	recommendCmd.Flags().IntP("count", "n", 0, "Number of resources (default 3)")

	askCmd.Flags().BoolP("interactive", "i", false, "Open the interactive question screen")
	askCmd.Flags().StringP("topic", "t", "", "Topic that scopes the question")
	askCmd.Flags().IntP("sources", "n", 0, "Number of resources to ground the answer on (default 3)")

	worksheetCmd.Flags().StringP("difficulty", "d", "", "Difficulty: beginner, intermediate or advanced")
	worksheetCmd.Flags().IntP("questions", "n", 0, "Number of questions (default 5)")
	worksheetCmd.Flags().Bool("answers", false, "Show answers and explanations")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(worksheetCmd)
}
