package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/montecarlo"
	"github.com/dyluth/z32/internal/solver"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *solver.Result {
	return &solver.Result{
		RunID:     "run-42",
		Version:   solver.Version,
		Timestamp: time.Unix(1_700_000_000, 500_000_000),
		Duration:  2 * time.Second,
		Counts: solver.Counts{
			Total:        2_044_224,
			PassedLength: 154_572,
			PassedLocks:  61,
			PassedBounds: 54,
		},
		TemplateSurvivors: map[string]int{"A": 40, "B": 14},
		Config:            config.Default(),
		Survivors:         make([]solver.Survivor, 54),
	}
}

// gather indexes gathered families by name.
func gather(t *testing.T, r *Recorder) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func labelled(mf *dto.MetricFamily, name, value string) (float64, bool) {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name && lp.GetValue() == value {
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func single(t *testing.T, families map[string]*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf, ok := families[name]
	require.True(t, ok, "metric %s not gathered", name)
	require.Len(t, mf.GetMetric(), 1)
	return mf.GetMetric()[0].GetGauge().GetValue()
}

func TestObserveSearch(t *testing.T) {
	r := NewRecorder()
	r.ObserveSearch(testResult())
	families := gather(t, r)

	stages := families["z32_candidates"]
	require.NotNil(t, stages)
	for stage, want := range map[string]float64{
		"total":  2_044_224,
		"length": 154_572,
		"locks":  61,
		"bounds": 54,
	} {
		got, ok := labelled(stages, "stage", stage)
		require.True(t, ok, "stage %s missing", stage)
		assert.Equal(t, want, got, stage)
	}

	tpl := families["z32_template_survivors"]
	require.NotNil(t, tpl)
	got, ok := labelled(tpl, "template", "A")
	require.True(t, ok)
	assert.Equal(t, 40.0, got)

	assert.Equal(t, 54.0, single(t, families, "z32_survivors"))
	assert.Equal(t, 2.0, single(t, families, "z32_search_duration_seconds"))
	assert.Equal(t, 1_700_000_000.5, single(t, families, "z32_last_run_timestamp_seconds"))
	assert.InDelta(t, 99.99735, single(t, families, "z32_rejection_rate_percent"), 1e-4)

	info := families["z32_run_info"]
	require.NotNil(t, info)
	v, ok := labelled(info, "run_id", "run-42")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestObserveSearch_ReplacesPreviousRun(t *testing.T) {
	r := NewRecorder()
	r.ObserveSearch(testResult())

	next := testResult()
	next.RunID = "run-43"
	next.TemplateSurvivors = map[string]int{"C": 1}
	r.ObserveSearch(next)

	families := gather(t, r)
	_, ok := labelled(families["z32_run_info"], "run_id", "run-42")
	assert.False(t, ok, "stale run_info series should be dropped")
	_, ok = labelled(families["z32_template_survivors"], "template", "A")
	assert.False(t, ok, "stale template series should be dropped")
	assert.Len(t, families["z32_template_survivors"].GetMetric(), 1)
}

func TestObserveEstimate(t *testing.T) {
	r := NewRecorder()
	r.ObserveEstimate(montecarlo.Result{Trials: 1000, Hits: 3, Probability: 0.003})

	families := gather(t, r)
	assert.Equal(t, 1000.0, single(t, families, "z32_montecarlo_trials"))
	assert.Equal(t, 3.0, single(t, families, "z32_montecarlo_hits"))
	assert.Equal(t, 0.003, single(t, families, "z32_montecarlo_probability"))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveSearch(testResult())

	path := filepath.Join(t.TempDir(), "z32.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# HELP z32_candidates ")
	assert.Contains(t, text, "# TYPE z32_candidates gauge")
	assert.Contains(t, text, `z32_candidates{stage="locks"} 61`)
	assert.Contains(t, text, `z32_run_info{run_id="run-42",version="2.0"} 1`)
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "z32.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}
