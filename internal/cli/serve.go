package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/logger"
	"github.com/rileyhilliard/perimeter/internal/server"
)

var (
	serveListen string
	serveQuiet  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo status backend",
	Long: `Serve random status snapshots so the dashboard can run without
facility hardware.

Routes:
  GET  /api/status    demo snapshot (fence alarm one poll in four)
  GET  /api/health    liveness
  GET  /api/lockdown  last lockdown command
  POST /api/lockdown  record a lockdown command
  GET  /metrics       Prometheus metrics

Examples:
  perimeter serve
  perimeter serve --listen 127.0.0.1:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.Server.Listen = serveListen
		}

		var accessLog io.Writer = os.Stdout
		if serveQuiet {
			accessLog = nil
		}

		ctx, cancel := signalContext()
		defer cancel()
		return serveCommand(ctx, cfg, accessLog)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address, overrides server.listen")
	serveCmd.Flags().BoolVarP(&serveQuiet, "quiet", "q", false, "don't print the access log")
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(ctx context.Context, cfg *config.Config, accessLog io.Writer) error {
	srv := server.New(server.Options{
		Listen:    cfg.Server.Listen,
		AccessLog: accessLog,
		Logger:    logger.NewEnvLogger("[serve]"),
	})
	return srv.Run(ctx)
}
