package commands

import (
	"fmt"

	"github.com/dyluth/z32/internal/logging"
	"github.com/dyluth/z32/internal/printer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version string
	commit  string
	date    string

	configPath string
	verbose    bool

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "z32",
	Short: "z32 - exhaustive Z32 cipher candidate search",
	Long: `z32 enumerates every phrase a fixed lexicon and set of templates can
produce, keeps those that satisfy the Z32 cipher's length and homophonic
lock constraints, projects each survivor onto the Phillips 66 map from the
Mt. Diablo anchor and ranks it by distance to the nearest reference point.

Results are written as JSON and CSV and can optionally be published to
Redis and exported as Prometheus metrics.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return printer.Error("failed to initialize logging", err.Error(), nil)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	// Errors are rendered by the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (built-in defaults if omitted)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Emit debug logs to stderr")
}
