package resolve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linksum/internal/app"
	"linksum/internal/config"
	"linksum/internal/transcript"
)

var (
	noCache   bool
	timeout   time.Duration
	verbose   bool
	dbPath    string
	redisAddr string
)

// Cmd represents the resolve command
var Cmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolve the transcript for a single URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(command *cobra.Command, args []string) error {
		cfg := config.Load()
		if timeout > 0 {
			cfg.FetchTimeout = timeout
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if redisAddr != "" {
			cfg.RedisAddr = redisAddr
		}

		logger := zap.NewNop()
		if verbose {
			var err error
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
		}

		resolver, store, err := app.BuildResolver(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		mode := transcript.CacheModeDefault
		if noCache {
			mode = transcript.CacheModeBypass
		}

		resolution, err := resolver.Resolve(command.Context(), args[0], "", mode)
		if err != nil {
			return err
		}

		diagnostics := resolution.Diagnostics
		if resolution.Text == nil {
			fmt.Printf("no transcript available (cache: %s, attempted: %v)\n",
				diagnostics.CacheStatus, diagnostics.AttemptedProviders)
			return nil
		}

		fmt.Println(*resolution.Text)
		fmt.Printf("\n--- source: %s | cache: %s\n", resolution.Source, diagnostics.CacheStatus)
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the transcript cache")
	Cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request network timeout (e.g. 30s)")
	Cmd.Flags().StringVar(&dbPath, "db", "", "path to the sqlite cache database")
	Cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the shared cache")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")
}
