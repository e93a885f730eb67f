package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"linksum/cmd/linksum/cmd/resolve"
	"linksum/cmd/linksum/cmd/serve"
	"linksum/cmd/linksum/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linksum",
	Short: "Resolve plain-text transcripts for content URLs",
	Long: `Resolve plain-text transcripts for content URLs.
- YouTube videos are served from captions or the transcript API
- Results are cached with separate TTLs for hits and misses
- Stale cached transcripts backstop transient provider failures`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
