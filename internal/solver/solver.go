// Package solver runs the full candidate search: filter every phrase the
// lexicon generates, project the survivors onto the map and score them
// against the reference points.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/lexicon"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version is stamped into every result.
const Version = "2.0"

// cancelCheckInterval is how many candidates pass between context checks.
const cancelCheckInterval = 1 << 16

// Options tune a run. The zero value runs sequentially with no logging.
type Options struct {
	Workers int         // >1 processes distance shards in parallel
	Logger  *zap.Logger // nil disables logging
	RunID   string      // generated when empty
	Now     func() time.Time
}

// Result is the complete outcome of a run.
type Result struct {
	RunID             string
	Version           string
	Timestamp         time.Time
	Duration          time.Duration
	Counts            Counts
	TemplateSurvivors map[string]int
	LexiconSizes      lexicon.Sizes
	Config            *config.Config
	Survivors         []Survivor
}

// Solve enumerates every candidate in lex and returns the sorted survivors
// with stage counts. Results are only returned once the whole space has
// been processed; a cancelled context yields an error and no result.
func Solve(ctx context.Context, cfg *config.Config, lex *lexicon.Lexicon, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, ConfigError(err)
	}
	if err := lex.Validate(); err != nil {
		return nil, ConfigError(fmt.Errorf("invalid lexicon: %w", err))
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	logger.Info("Starting candidate search",
		zap.String("run_id", runID),
		zap.Int64("candidates", lex.Count()),
		zap.Int("workers", max(opts.Workers, 1)))

	start := now()
	var (
		agg *Aggregator
		err error
	)
	if opts.Workers > 1 {
		agg, err = solveParallel(ctx, cfg, lex, opts.Workers)
	} else {
		agg, err = solveSequential(ctx, cfg, lex)
	}
	if err != nil {
		return nil, &StageError{Stage: StageSolve, Err: err}
	}
	finished := now()

	counts := agg.Counts()
	logger.Info("Candidate search complete",
		zap.String("run_id", runID),
		zap.Int64("total", counts.Total),
		zap.Int64("passed_length", counts.PassedLength),
		zap.Int64("passed_locks", counts.PassedLocks),
		zap.Int64("passed_bounds", counts.PassedBounds),
		zap.Float64("rejection_rate_pct", counts.RejectionRatePct()),
		zap.Duration("elapsed", finished.Sub(start)))

	return &Result{
		RunID:             runID,
		Version:           Version,
		Timestamp:         finished,
		Duration:          finished.Sub(start),
		Counts:            counts,
		TemplateSurvivors: agg.TemplateSurvivors(),
		LexiconSizes:      lex.Sizes(),
		Config:            cfg,
		Survivors:         agg.Survivors(),
	}, nil
}

func solveSequential(ctx context.Context, cfg *config.Config, lex *lexicon.Lexicon) (*Aggregator, error) {
	agg := NewAggregator(cfg)
	n := 0
	for c := range lex.All() {
		if n++; n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("search interrupted after %d candidates: %w", n, err)
			}
		}
		agg.Observe(c)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search interrupted: %w", err)
	}
	return agg, nil
}

// solveParallel gives each distance shard its own Aggregator and merges
// them in shard order once all are done. Survivors carry their sequence
// index, so the final sort matches a sequential run exactly.
func solveParallel(ctx context.Context, cfg *config.Config, lex *lexicon.Lexicon, workers int) (*Aggregator, error) {
	shards := make([]*Aggregator, lex.Distances())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for whole := range shards {
		g.Go(func() error {
			agg := NewAggregator(cfg)
			n := 0
			for c := range lex.Shard(whole) {
				if n++; n%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return fmt.Errorf("shard %d interrupted: %w", whole, err)
					}
				}
				agg.Observe(c)
			}
			shards[whole] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search interrupted: %w", err)
	}

	merged := NewAggregator(cfg)
	for _, agg := range shards {
		merged.Merge(agg)
	}
	return merged, nil
}
