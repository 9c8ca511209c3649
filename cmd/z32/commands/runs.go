package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dyluth/z32/internal/blackboard"
	"github.com/dyluth/z32/internal/printer"
	"github.com/dyluth/z32/internal/report"
	"github.com/dyluth/z32/internal/timespec"
	"github.com/dyluth/z32/internal/watch"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runsRedisAddr string
	runsInstance  string
	runsLimit     int
	runsOutput    string
	runsSince     string
	runsUntil     string
	runsWatch     bool
	runsWait      time.Duration
)

var runsCmd = &cobra.Command{
	Use:   "runs [RUN_ID]",
	Short: "Inspect runs published to Redis",
	Long: `Inspect runs published by 'z32 solve --redis-addr'.

List Mode (no RUN_ID):
  Displays the most recent runs, newest first.

Get Mode (with RUN_ID):
  Displays the run summary and its ranked survivors.

Time Filters (list mode only):
  --since  - Show runs published after this time (duration or RFC3339)
  --until  - Show runs published before this time

Following:
  --watch  - After listing, print each new run as it is published (list mode)
  --wait   - Wait up to this long for the run to be published (get mode)

Output Formats:
  default - Human-readable table
  jsonl   - Line-delimited JSON, one run (list mode) or survivor (get mode) per line

Examples:
  z32 runs --redis-addr localhost:6379
  z32 runs --redis-addr localhost:6379 --limit 5 --output jsonl
  z32 runs --since 24h --watch
  z32 runs 2f0c1f7e-3b6c-4d7a-9f55-6a3c4e1b2d90 --redis-addr localhost:6379 --wait 5m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsRedisAddr, "redis-addr", "localhost:6379", "Redis server address")
	runsCmd.Flags().StringVarP(&runsInstance, "name", "n", "default", "Instance name used to namespace Redis keys")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs (list mode) or survivors (get mode) to show; 0 shows all")
	runsCmd.Flags().StringVarP(&runsOutput, "output", "o", "default", "Output format: default or jsonl")
	runsCmd.Flags().StringVar(&runsSince, "since", "", "Show runs after time (duration or RFC3339)")
	runsCmd.Flags().StringVar(&runsUntil, "until", "", "Show runs before time (duration or RFC3339)")
	runsCmd.Flags().BoolVarP(&runsWatch, "watch", "w", false, "Keep printing runs as they are published")
	runsCmd.Flags().DurationVar(&runsWait, "wait", 0, "Wait this long for RUN_ID to be published")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runsOutput != "default" && runsOutput != "jsonl" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", runsOutput),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	window, err := timespec.ParseRange(runsSince, runsUntil, time.Now())
	if err != nil {
		return printer.Error(
			"invalid time range",
			err.Error(),
			[]string{"Use a duration like 2h or an RFC3339 timestamp like 2026-10-29T13:00:00Z"},
		)
	}

	client, err := blackboard.NewClient(&redis.Options{Addr: runsRedisAddr}, runsInstance)
	if err != nil {
		return printer.Error("invalid instance name", err.Error(), nil)
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		return printer.ErrorWithContext(
			"Redis unavailable",
			err.Error(),
			map[string]string{"Redis": runsRedisAddr},
			[]string{"Check the server is running and --redis-addr is correct"},
		)
	}

	if len(args) == 1 {
		err = getRun(ctx, client, args[0])
	} else {
		err = listRuns(ctx, client, window)
		if err == nil && runsWatch {
			err = followRuns(ctx, client, window)
		}
	}
	if err != nil && !isRendered(err) {
		return printer.ErrorWithContext(
			"failed to read runs",
			err.Error(),
			map[string]string{"Redis": runsRedisAddr, "Instance": runsInstance},
			nil,
		)
	}
	return err
}

func listRuns(ctx context.Context, client *blackboard.Client, window timespec.Range) error {
	ids, err := client.ListRunsBetween(ctx, window.Since, window.Until, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	summaries := make([]*blackboard.RunSummary, 0, len(ids))
	for _, id := range ids {
		s, err := client.GetRun(ctx, id)
		if blackboard.IsNotFound(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load run %s: %w", id, err)
		}
		summaries = append(summaries, s)
	}

	out := printer.Stdout()
	if runsOutput == "jsonl" {
		return writeJSONL(out, summaries)
	}
	if len(summaries) == 0 && !runsWatch {
		fmt.Fprintf(out, "No runs found\n")
		return nil
	}
	formatRunTable(out, summaries)
	return nil
}

// followRuns prints each newly published run inside window until
// interrupted.
func followRuns(ctx context.Context, client *blackboard.Client, window timespec.Range) error {
	out := printer.Stdout()
	printer.Step("Watching for new runs (Ctrl-C to stop)\n")
	return watch.StreamRuns(ctx, client, func(s *blackboard.RunSummary) error {
		if !window.Contains(time.UnixMilli(s.CreatedAtMs)) {
			return nil
		}
		if runsOutput == "jsonl" {
			return writeJSONL(out, []*blackboard.RunSummary{s})
		}
		formatRunRow(out, s)
		return nil
	}, func(err error) {
		logger.Warn("Skipping malformed run event", zap.Error(err))
	})
}

func getRun(ctx context.Context, client *blackboard.Client, runID string) error {
	var (
		summary *blackboard.RunSummary
		err     error
	)
	if runsWait > 0 {
		summary, err = watch.WaitForRun(ctx, client, runID, 500*time.Millisecond, runsWait)
	} else {
		summary, err = client.GetRun(ctx, runID)
	}
	if blackboard.IsNotFound(err) {
		return rendered{printer.Error(
			"run not found",
			fmt.Sprintf("No run with ID %s in instance %q.", runID, runsInstance),
			[]string{"List published runs with:\n     z32 runs"},
		)}
	}
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	survivors, err := client.ListSurvivors(ctx, runID, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to load survivors: %w", err)
	}

	out := printer.Stdout()
	if runsOutput == "jsonl" {
		return writeJSONL(out, survivors)
	}

	printer.Header("Run " + summary.RunID)
	printer.Printf("Timestamp:        %s\n", summary.Timestamp)
	printer.Printf("Solver version:   %s\n", summary.Version)
	printer.Printf("Candidates:       %d\n", summary.TotalCandidates)
	printer.Printf("Passed locks:     %d\n", summary.PassedLocks)
	printer.Printf("Survivors:        %d\n", summary.NumSurvivors)
	printer.Printf("Rejection rate:   %.4f%%\n\n", summary.RejectionRatePct)
	report.FormatTable(out, survivors, 0)
	return nil
}

// rendered marks an error whose message the printer has already shown.
type rendered struct{ error }

func (r rendered) Unwrap() error { return r.error }

func isRendered(err error) bool {
	var r rendered
	return errors.As(err, &r)
}

func writeJSONL[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("failed to encode JSON line: %w", err)
		}
	}
	return nil
}

const runRowFormat = "%-36s  %-27s  %-7s  %-9s  %-36s  %s\n"

func formatRunTable(w io.Writer, runs []*blackboard.RunSummary) {
	fmt.Fprintf(w, runRowFormat, "RUN ID", "TIMESTAMP", "VERSION", "SURVIVORS", "TOP PHRASE", "MILES")
	for _, r := range runs {
		formatRunRow(w, r)
	}
}

func formatRunRow(w io.Writer, r *blackboard.RunSummary) {
	top, miles := "-", "-"
	if r.NumSurvivors > 0 {
		top = r.TopPhrase
		miles = fmt.Sprintf("%.2f", r.TopMiles)
	}
	fmt.Fprintf(w, runRowFormat, r.RunID, r.Timestamp, r.Version, strconv.Itoa(r.NumSurvivors), top, miles)
}
