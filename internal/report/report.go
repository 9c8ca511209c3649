// Package report turns a solver result into the output artifacts: a JSON
// record, a CSV table with one row per survivor, and a console summary.
package report

import (
	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/lexicon"
	"github.com/dyluth/z32/internal/solver"
)

// File names written into the output directory.
const (
	JSONFile = "z32_results.json"
	CSVFile  = "z32_results.csv"
)

// Record is the JSON artifact.
type Record struct {
	Metadata     Metadata          `json:"metadata"`
	Constants    Constants         `json:"constants"`
	LexiconSizes lexicon.Sizes     `json:"lexicon_sizes"`
	Survivors    []solver.Survivor `json:"survivors"`
}

// Metadata summarises the run.
type Metadata struct {
	SolverVersion     string         `json:"solver_version"`
	RunID             string         `json:"run_id"`
	Timestamp         string         `json:"timestamp"`
	DurationMs        int64          `json:"duration_ms"`
	TotalCandidates   int64          `json:"total_candidates"`
	PassedLength      int64          `json:"passed_length"`
	PassedLocks       int64          `json:"passed_locks"`
	PassedBounds      int64          `json:"passed_bounds"`
	RejectionRatePct  float64        `json:"rejection_rate_pct"`
	NumSurvivors      int            `json:"num_survivors"`
	TemplateSurvivors map[string]int `json:"template_survivors"`
}

// Constants echoes the configuration the run used.
type Constants struct {
	Anchor         [2]float64         `json:"anchor"`
	MagDeclination float64            `json:"mag_declination"`
	MapScale       float64            `json:"map_scale_mi_per_inch"`
	EarthRadius    float64            `json:"earth_radius_mi"`
	CipherLength   int                `json:"cipher_length"`
	Bounds         config.Bounds      `json:"bounds"`
	Locks          []config.LockPair  `json:"locks"`
	References     []config.Reference `json:"references"`
}

// NewRecord builds the JSON artifact for res.
func NewRecord(res *solver.Result) Record {
	cfg := res.Config
	survivors := res.Survivors
	if survivors == nil {
		survivors = []solver.Survivor{}
	}
	return Record{
		Metadata: Metadata{
			SolverVersion:     res.Version,
			RunID:             res.RunID,
			Timestamp:         res.Timestamp.Format("2006-01-02T15:04:05.000000Z07:00"),
			DurationMs:        res.Duration.Milliseconds(),
			TotalCandidates:   res.Counts.Total,
			PassedLength:      res.Counts.PassedLength,
			PassedLocks:       res.Counts.PassedLocks,
			PassedBounds:      res.Counts.PassedBounds,
			RejectionRatePct:  res.Counts.RejectionRatePct(),
			NumSurvivors:      len(res.Survivors),
			TemplateSurvivors: res.TemplateSurvivors,
		},
		Constants: Constants{
			Anchor:         [2]float64{cfg.Anchor.Lat, cfg.Anchor.Lon},
			MagDeclination: cfg.Declination,
			MapScale:       cfg.MapScale,
			EarthRadius:    cfg.EarthRadius,
			CipherLength:   cfg.CipherLength,
			Bounds:         cfg.Bounds,
			Locks:          cfg.Locks,
			References:     cfg.References,
		},
		LexiconSizes: res.LexiconSizes,
		Survivors:    survivors,
	}
}
