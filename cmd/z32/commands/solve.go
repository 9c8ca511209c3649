package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dyluth/z32/internal/blackboard"
	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/lexicon"
	"github.com/dyluth/z32/internal/metrics"
	"github.com/dyluth/z32/internal/printer"
	"github.com/dyluth/z32/internal/report"
	"github.com/dyluth/z32/internal/solver"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	solveOutDir      string
	solveWorkers     int
	solveTop         int
	solveRedisAddr   string
	solveInstance    string
	solveMetricsFile string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the full candidate search and write the results",
	Long: `Enumerate every candidate phrase, filter by length and homophonic locks,
project the survivors onto the map and rank them by distance to the nearest
reference point.

Writes into the output directory:
  • z32_results.json - metadata, constants, lexicon sizes and survivors
  • z32_results.csv  - one ranked row per survivor

Both files are written only after the whole search completes. An
interrupted run or a failed file write leaves no new artifact behind.

The metrics textfile and Redis publication happen after both files are in
place. If either of those fails the command exits 1, but the JSON and CSV
already written are complete and valid.

Examples:
  # Search with the built-in constants
  z32 solve

  # Custom constants, four workers, results in ./runs/latest
  z32 solve --config z32.yaml --workers 4 --out runs/latest

  # Publish the run to Redis and export metrics for node-exporter
  z32 solve --redis-addr localhost:6379 --metrics-file /var/lib/node_exporter/z32.prom`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveOutDir, "out", "o", "output", "Output directory")
	solveCmd.Flags().IntVarP(&solveWorkers, "workers", "w", runtime.GOMAXPROCS(0), "Parallel distance shards (1 runs sequentially)")
	solveCmd.Flags().IntVar(&solveTop, "top", 10, "Survivors shown in the console table (0 shows all)")
	solveCmd.Flags().StringVar(&solveRedisAddr, "redis-addr", "", "Publish the run to this Redis server")
	solveCmd.Flags().StringVarP(&solveInstance, "name", "n", "default", "Instance name used to namespace Redis keys")
	solveCmd.Flags().StringVar(&solveMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	rootCmd.AddCommand(solveCmd)
}

// loadConfig returns the built-in defaults or the file named by --config.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, solver.ConfigError(err)
	}
	return cfg, nil
}

func configLabel() string {
	if configPath == "" {
		return "(built-in defaults)"
	}
	return configPath
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	details := map[string]string{
		"Config": configLabel(),
		"Output": solveOutDir,
	}

	cfg, err := loadConfig()
	if err != nil {
		return stageFailure(err, details)
	}

	if solveWorkers < 1 {
		return printer.Error(
			"invalid worker count",
			"--workers must be at least 1.",
			[]string{"Use --workers 1 for a sequential run"},
		)
	}

	if solveRedisAddr != "" {
		if err := blackboard.ValidateInstanceName(solveInstance); err != nil {
			return printer.Error(
				"invalid instance name",
				err.Error(),
				[]string{"Use lowercase letters, digits and hyphens, e.g. --name prod-1"},
			)
		}
	}

	lex := lexicon.Default()
	printer.Header("Z32 Solver")
	printer.Step("Searching %d candidates with %d worker(s)\n", lex.Count(), solveWorkers)

	res, err := solver.Solve(ctx, cfg, lex, solver.Options{
		Workers: solveWorkers,
		Logger:  logger,
	})
	if err != nil {
		return stageFailure(err, details)
	}

	out := printer.Stdout()
	printer.Println()
	report.FormatSummary(out, res)
	printer.Println()
	report.FormatTable(out, res.Survivors, solveTop)
	printer.Println()

	paths, err := report.Write(solveOutDir, res)
	if err != nil {
		return stageFailure(solver.OutputError(err), details)
	}
	printer.Success("Saved: %s\n", paths.JSON)
	printer.Success("Saved: %s\n", paths.CSV)

	if solveMetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.ObserveSearch(res)
		if err := rec.WriteTextfile(solveMetricsFile); err != nil {
			details["Metrics"] = solveMetricsFile
			return stageFailure(solver.OutputError(err), details)
		}
		printer.Success("Metrics: %s\n", solveMetricsFile)
	}

	if solveRedisAddr != "" {
		summary, err := publishRun(ctx, report.NewRecord(res))
		if err != nil {
			details["Redis"] = solveRedisAddr
			return stageFailure(solver.OutputError(err), details)
		}
		printer.Success("Published run %s to %s (instance %q)\n", summary.RunID, solveRedisAddr, solveInstance)
	}

	logger.Debug("Run finished",
		zap.String("run_id", res.RunID),
		zap.String("out", solveOutDir))
	return nil
}

func publishRun(ctx context.Context, rec report.Record) (*blackboard.RunSummary, error) {
	client, err := blackboard.NewClient(&redis.Options{Addr: solveRedisAddr}, solveInstance)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", solveRedisAddr, err)
	}
	return client.PublishRun(ctx, rec)
}

// cmdContext returns the command's context, or Background when the command
// is run without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
