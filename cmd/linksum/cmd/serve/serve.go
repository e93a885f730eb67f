package serve

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linksum/internal/app"
	"linksum/internal/config"
	"linksum/web"
)

var port string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcript resolution HTTP server",
	RunE: func(command *cobra.Command, args []string) error {
		cfg := config.Load()
		if port != "" {
			cfg.HTTPPort = port
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		resolver, store, err := app.BuildResolver(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		addr := ":" + cfg.HTTPPort
		logger.Info("starting transcript resolution server", zap.String("addr", addr))
		return web.NewServer(addr, resolver, logger).Start()
	},
}

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on")
}
