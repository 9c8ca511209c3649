// Package montecarlo estimates how often a uniformly random point inside a
// sampling triangle forms a near-equilateral triangle with a fixed edge.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/geo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Defaults for the canonical estimate.
const (
	DefaultTrials    = 1_000_000
	DefaultSeed      = 32
	DefaultTolerance = 0.8
)

// chunkSize is the number of trials drawn from one generator stream.
// Chunks are seeded by index, so the estimate does not depend on Workers.
const chunkSize = 1 << 16

// Params describe one estimate.
type Params struct {
	Region    [3]geo.Point // sampling triangle
	Edge      [2]geo.Point // fixed edge the sample closes into a triangle
	Trials    int64
	Seed      uint64
	Tolerance float64 // max deviation of every angle from 60°, degrees
	Workers   int
}

// Result is the outcome of an estimate.
type Result struct {
	Trials      int64    `json:"monte_carlo_samples"`
	Hits        int64    `json:"hits_within_tolerance"`
	Probability float64  `json:"probability"`
	StdErr      float64  `json:"standard_error"`
	OddsOneIn   *float64 `json:"odds_1_in"` // nil when there were no hits
	Seed        uint64   `json:"rng_seed"`
	Tolerance   float64  `json:"tolerance_deg"`
}

// DefaultParams builds the canonical estimate from cfg: the region is the
// anchor with lake_berryessa and presidio_heights, the edge runs from
// lake_herman_road to blue_rock_springs.
func DefaultParams(cfg *config.Config) (Params, error) {
	find := func(label string) (geo.Point, error) {
		for _, ref := range cfg.References {
			if ref.Label == label {
				return ref.Point(), nil
			}
		}
		return geo.Point{}, fmt.Errorf("reference point %q not defined", label)
	}

	p := Params{
		Trials:    DefaultTrials,
		Seed:      DefaultSeed,
		Tolerance: DefaultTolerance,
		Workers:   1,
	}
	p.Region[0] = cfg.Anchor

	var err error
	if p.Region[1], err = find("lake_berryessa"); err != nil {
		return Params{}, err
	}
	if p.Region[2], err = find("presidio_heights"); err != nil {
		return Params{}, err
	}
	if p.Edge[0], err = find("lake_herman_road"); err != nil {
		return Params{}, err
	}
	if p.Edge[1], err = find("blue_rock_springs"); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if p.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", p.Trials)
	}
	if p.Tolerance <= 0 || p.Tolerance > 180 {
		return fmt.Errorf("tolerance must be in (0, 180], got %g", p.Tolerance)
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	return nil
}

// plane holds the sampling geometry on the local tangent plane.
type plane struct {
	a, b, c   geo.XY
	e0, e1    geo.XY
	base      float64
	tolerance float64
}

func newPlane(p Params) plane {
	origin := geo.Point{
		Lat: (p.Region[0].Lat + p.Region[1].Lat + p.Region[2].Lat) / 3,
		Lon: (p.Region[0].Lon + p.Region[1].Lon + p.Region[2].Lon) / 3,
	}
	pl := plane{
		a:         geo.ToLocalMiles(p.Region[0], origin),
		b:         geo.ToLocalMiles(p.Region[1], origin),
		c:         geo.ToLocalMiles(p.Region[2], origin),
		e0:        geo.ToLocalMiles(p.Edge[0], origin),
		e1:        geo.ToLocalMiles(p.Edge[1], origin),
		tolerance: p.Tolerance,
	}
	pl.base = pl.e0.Dist(pl.e1)
	return pl
}

// hit reports whether every interior angle of the triangle (e0, e1, pt)
// is within tolerance of 60°.
func (pl plane) hit(pt geo.XY) bool {
	d0, d1 := pl.e0.Dist(pt), pl.e1.Dist(pt)
	angles := [3]float64{
		geo.AngleFromSides(pl.base, d0, d1),
		geo.AngleFromSides(pl.base, d1, d0),
		geo.AngleFromSides(d0, d1, pl.base),
	}
	for _, a := range angles {
		if math.Abs(a-60) > pl.tolerance {
			return false
		}
	}
	return true
}

func (pl plane) run(seed, chunk uint64, trials int64) int64 {
	rng := rand.New(rand.NewPCG(seed, chunk))
	var hits int64
	for range trials {
		pt := geo.SamplePointInTriangle(pl.a, pl.b, pl.c, rng.Float64(), rng.Float64())
		if pl.hit(pt) {
			hits++
		}
	}
	return hits
}

// Estimate runs the trials and returns the hit count with its binomial
// standard error. The same Seed and Trials always give the same Result.
func Estimate(ctx context.Context, p Params, logger *zap.Logger) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid Monte Carlo parameters: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pl := newPlane(p)
	chunks := (p.Trials + chunkSize - 1) / chunkSize
	hits := make([]int64, chunks)

	logger.Info("Starting Monte Carlo estimate",
		zap.Int64("trials", p.Trials),
		zap.Uint64("seed", p.Seed),
		zap.Float64("tolerance_deg", p.Tolerance),
		zap.Int64("chunks", chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Workers, 1))
	for i := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("chunk %d not started: %w", i, err)
			}
			n := min(chunkSize, p.Trials-i*chunkSize)
			hits[i] = pl.run(p.Seed, uint64(i), n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("estimate interrupted: %w", err)
	}

	var total int64
	for _, h := range hits {
		total += h
	}

	prob := float64(total) / float64(p.Trials)
	res := Result{
		Trials:      p.Trials,
		Hits:        total,
		Probability: prob,
		StdErr:      math.Sqrt(prob * (1 - prob) / float64(p.Trials)),
		Seed:        p.Seed,
		Tolerance:   p.Tolerance,
	}
	if total > 0 {
		odds := 1 / prob
		res.OddsOneIn = &odds
	}

	logger.Info("Monte Carlo estimate complete",
		zap.Int64("hits", res.Hits),
		zap.Float64("probability", res.Probability),
		zap.Float64("standard_error", res.StdErr))
	return res, nil
}
