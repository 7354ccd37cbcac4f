package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/config"
	"github.com/abhisek/edumate/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "edumate",
	Short:         "AI assistant for teachers and students",
	Long:          "edumate recommends learning resources, grades answers, supports teacher wellbeing and runs a class schedule with rewards.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides EDUMATE_DB)")
	pf.String("env-file", ".env", "Read environment variables from this file if it exists")
	pf.String("kb", "", "Knowledge base YAML file or directory (overrides EDUMATE_KNOWLEDGE_BASE)")
	pf.String("user", "", "Act as this user (overrides EDUMATE_USER)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides EDUMATE_LOG_LEVEL)")
	pf.Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("kb"); v != "" {
		cfg.KnowledgeBase = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User.ID = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

// withApp builds the application for one command and tears it down after.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}()
	return fn(ctx, a)
}

// emit prints v as JSON when --json is set and calls human otherwise.
func emit(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(w)
	return nil
}

// readInput returns args joined by spaces, or stdin when args is empty.
func readInput(cmd *cobra.Command, args []string, what string) (string, error) {
	if len(args) > 0 {
		return joinWords(args), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read %s from stdin: %w", what, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return text, nil
}

func joinWords(args []string) string {
	return strings.Join(args, " ")
}
