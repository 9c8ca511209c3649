package montecarlo

import (
	"context"
	"errors"
	"testing"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func defaultParams(t *testing.T) Params {
	t.Helper()
	p, err := DefaultParams(config.Default())
	require.NoError(t, err)
	return p
}

func TestDefaultParams(t *testing.T) {
	cfg := config.Default()
	p := defaultParams(t)

	assert.Equal(t, cfg.Anchor, p.Region[0])
	assert.Equal(t, geo.Point{Lat: 38.5636, Lon: -122.2317}, p.Region[1])
	assert.Equal(t, geo.Point{Lat: 37.7887, Lon: -122.4571}, p.Region[2])
	assert.Equal(t, geo.Point{Lat: 38.0949, Lon: -122.1441}, p.Edge[0])
	assert.Equal(t, geo.Point{Lat: 38.1260, Lon: -122.1911}, p.Edge[1])
	assert.Equal(t, int64(DefaultTrials), p.Trials)
	assert.Equal(t, uint64(DefaultSeed), p.Seed)
	assert.Equal(t, DefaultTolerance, p.Tolerance)
}

func TestDefaultParams_MissingReference(t *testing.T) {
	cfg := config.Default()
	cfg.References = cfg.References[:2]

	_, err := DefaultParams(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"lake_berryessa"`)
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{name: "valid", mutate: func(*Params) {}},
		{name: "zero trials", mutate: func(p *Params) { p.Trials = 0 }, wantErr: "trials must be positive"},
		{name: "zero tolerance", mutate: func(p *Params) { p.Tolerance = 0 }, wantErr: "tolerance must be in"},
		{name: "tolerance too wide", mutate: func(p *Params) { p.Tolerance = 181 }, wantErr: "tolerance must be in"},
		{name: "negative workers", mutate: func(p *Params) { p.Workers = -1 }, wantErr: "workers must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams(t)
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlane_Hit(t *testing.T) {
	pl := plane{
		e0:        geo.XY{X: 0, Y: 0},
		e1:        geo.XY{X: 2, Y: 0},
		tolerance: 0.5,
	}
	pl.base = pl.e0.Dist(pl.e1)

	apex := geo.XY{X: 1, Y: 1.7320508075688772}
	assert.True(t, pl.hit(apex), "equilateral apex")
	assert.True(t, pl.hit(geo.XY{X: 1, Y: -1.7320508075688772}), "mirror apex")
	assert.False(t, pl.hit(geo.XY{X: 1, Y: 1}), "flattened triangle")
	assert.False(t, pl.hit(geo.XY{X: 1.3, Y: 1.7320508075688772}), "skewed apex")
}

func TestEstimate_Deterministic(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := defaultParams(t)
	p.Trials = 150_000
	p.Tolerance = 10

	first, err := Estimate(context.Background(), p, nil)
	require.NoError(t, err)
	second, err := Estimate(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	p.Workers = 4
	parallel, err := Estimate(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, first, parallel, "worker count must not change the estimate")
}

func TestEstimate_Statistics(t *testing.T) {
	p := defaultParams(t)
	p.Trials = 200_000
	p.Tolerance = 10
	p.Workers = 2

	res, err := Estimate(context.Background(), p, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(200_000), res.Trials)
	assert.Equal(t, uint64(DefaultSeed), res.Seed)
	assert.Equal(t, 10.0, res.Tolerance)
	assert.InDelta(t, 0.0032, res.Probability, 0.0008)
	assert.InDelta(t, float64(res.Hits)/200_000, res.Probability, 1e-15)
	assert.Greater(t, res.StdErr, 0.0)
	require.NotNil(t, res.OddsOneIn)
	assert.InDelta(t, 1/res.Probability, *res.OddsOneIn, 1e-9)
}

func TestEstimate_SeedChangesSample(t *testing.T) {
	p := defaultParams(t)
	p.Trials = 100_000
	p.Tolerance = 20

	var hits []int64
	for seed := uint64(32); seed < 35; seed++ {
		p.Seed = seed
		res, err := Estimate(context.Background(), p, nil)
		require.NoError(t, err)
		hits = append(hits, res.Hits)
	}
	assert.False(t, hits[0] == hits[1] && hits[1] == hits[2], "different seeds drew identical samples: %v", hits)
}

func TestEstimate_WholeRegionHitsEverything(t *testing.T) {
	p := defaultParams(t)
	p.Trials = 1000
	p.Tolerance = 180

	res, err := Estimate(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Hits)
	assert.Equal(t, 1.0, res.Probability)
	assert.Equal(t, 0.0, res.StdErr)
}

func TestEstimate_NoHits(t *testing.T) {
	p := defaultParams(t)
	p.Trials = 1000
	p.Tolerance = 1e-9

	res, err := Estimate(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Hits)
	assert.Nil(t, res.OddsOneIn)
}

func TestEstimate_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := defaultParams(t)
	p.Workers = 3

	_, err := Estimate(ctx, p, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEstimate_InvalidParams(t *testing.T) {
	p := defaultParams(t)
	p.Trials = -5

	_, err := Estimate(context.Background(), p, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Monte Carlo parameters")
}
