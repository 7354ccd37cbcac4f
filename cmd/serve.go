package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/edumate/internal/api"
	"github.com/abhisek/edumate/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			cfg := a.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			return api.NewServer(a, cfg).Run(ctx)
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides EDUMATE_HTTP_ADDR)")
}
