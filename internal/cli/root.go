// Package cli provides the command-line interface for url2kb.
package cli

import (
	"log/slog"

	"github.com/kbtools/url2kb/internal/api"
	"github.com/kbtools/url2kb/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Global config and server client
	cfg       config.Config
	apiClient *api.Client
	logClose  func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "url2kb",
	Short: "Import web pages into a knowledge base",
	Long: `url2kb drives a server-side URL-to-knowledge-base conversion:
submit a URL, wait for the conversion task to finish, and store the
resulting summaries in a collection as individual text chunks.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, closeLog := config.Setup(cfg.LogFile, level)
		slog.SetDefault(logger)
		logClose = closeLog

		apiClient = api.New(cfg.ServerURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logClose != nil {
			_ = logClose()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "conversion server base URL")
}
