package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/beeper/ai-pptx/pkg/config"
)

var (
	cfgFile   string
	logLevel  string
	workspace string

	// Loaded by the root command before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ai-pptx",
	Short: "Sandboxed PowerPoint text extraction for AI agents",
	Long: `ai-pptx exposes a pptx_read tool that extracts plain text from PPTX files
inside a configured workspace.

Every call is checked against the workspace sandbox: paths are allow-listed
before and after symlinks are resolved, calls are rate limited and metered
against a budget, and files over 50 MiB are refused.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if workspace != "" {
			loaded.Security.WorkspaceDir = workspace
		}
		if logLevel != "" {
			loaded.Logging.Level = logLevel
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		// stdout carries MCP traffic and command output, so logs go to stderr.
		var log zerolog.Logger
		if cfg.Logging.Pretty {
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
		} else {
			log = zerolog.New(os.Stderr)
		}
		log = log.Level(cfg.LogLevel()).With().Timestamp().Logger()
		cmd.SetContext(log.WithContext(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (.yaml or .json5; default: built-in defaults)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "override logging.level",
	)
	rootCmd.PersistentFlags().StringVarP(
		&workspace, "workspace", "w", "", "override security.workspace_dir",
	)

	rootCmd.AddCommand(serveCmd, readCmd, actionsCmd, configCmd, versionCmd)
}
