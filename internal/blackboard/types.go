package blackboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/z32/internal/report"
)

// RunSummary is the per-run record kept in the summary hash and sent as the
// run event payload.
type RunSummary struct {
	RunID            string  `json:"run_id"`
	Version          string  `json:"solver_version"`
	Timestamp        string  `json:"timestamp"`
	CreatedAtMs      int64   `json:"created_at_ms"`
	DurationMs       int64   `json:"duration_ms"`
	TotalCandidates  int64   `json:"total_candidates"`
	PassedLength     int64   `json:"passed_length"`
	PassedLocks      int64   `json:"passed_locks"`
	PassedBounds     int64   `json:"passed_bounds"`
	RejectionRatePct float64 `json:"rejection_rate_pct"`
	NumSurvivors     int     `json:"num_survivors"`
	TopPhrase        string  `json:"top_phrase,omitempty"`
	TopScene         string  `json:"top_scene,omitempty"`
	TopMiles         float64 `json:"top_dist_mi,omitempty"`
}

// NewRunSummary condenses a result record. createdAt orders runs in the
// index.
func NewRunSummary(rec report.Record, createdAt time.Time) RunSummary {
	m := rec.Metadata
	s := RunSummary{
		RunID:            m.RunID,
		Version:          m.SolverVersion,
		Timestamp:        m.Timestamp,
		CreatedAtMs:      createdAt.UnixMilli(),
		DurationMs:       m.DurationMs,
		TotalCandidates:  m.TotalCandidates,
		PassedLength:     m.PassedLength,
		PassedLocks:      m.PassedLocks,
		PassedBounds:     m.PassedBounds,
		RejectionRatePct: m.RejectionRatePct,
		NumSurvivors:     m.NumSurvivors,
	}
	if len(rec.Survivors) > 0 {
		top := rec.Survivors[0]
		s.TopPhrase = top.Phrase
		s.TopScene = top.NearestLabel
		s.TopMiles = top.NearestMiles
	}
	return s
}

// Validate checks the summary can be stored.
func (s *RunSummary) Validate() error {
	if s.RunID == "" {
		return errors.New("run_id is required")
	}
	if s.Version == "" {
		return errors.New("solver_version is required")
	}
	if s.NumSurvivors < 0 {
		return fmt.Errorf("num_survivors must not be negative, got %d", s.NumSurvivors)
	}
	return nil
}
