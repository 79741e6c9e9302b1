package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wardenhq/warden/pkg/logger"
	"github.com/wardenhq/warden/pkg/presenter"
	"github.com/wardenhq/warden/pkg/scan"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("WARDEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.warden")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	setConfigDefaults()
}

// setConfigDefaults registers every policy knob with its default. All of
// these are overridable via config.yaml or WARDEN_* environment
// variables.
func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "fmt")
	viper.SetDefault("sessions.store", "json")
	viper.SetDefault("counter.interval", 50)
	viper.SetDefault("counter.limit", 200)
	viper.SetDefault("scan.markers", scan.DefaultMarkers)
	viper.SetDefault("scan.excludes", scan.DefaultExcludes)
	viper.SetDefault("patterns.min_messages", 10)
}

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Session lifecycle hooks for AI coding assistant sessions",
	Long: `Warden keeps per-session bookkeeping for an AI coding assistant host:
tool call counters with compaction suggestions, pre-compaction state
snapshots, debug marker scans over modified files, and end-of-session
transcript summaries with pattern extraction eligibility.

The host invokes the entry points under "warden hook" at lifecycle
events; "warden install" wires them into the host's settings document.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			logger.L.WithError(err).Warn("invalid log level, keeping default")
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		quiet, _ := cmd.Flags().GetBool("quiet")
		presenter.SetQuiet(quiet)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	// Global flags
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-essential output")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "command failed")
		os.Exit(1)
	}
}
