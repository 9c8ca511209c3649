package blackboard

import (
	"fmt"
	"strconv"
)

// SummaryToHash flattens a RunSummary into Redis hash fields.
func SummaryToHash(s *RunSummary) map[string]interface{} {
	return map[string]interface{}{
		"run_id":             s.RunID,
		"solver_version":     s.Version,
		"timestamp":          s.Timestamp,
		"created_at_ms":      s.CreatedAtMs,
		"duration_ms":        s.DurationMs,
		"total_candidates":   s.TotalCandidates,
		"passed_length":      s.PassedLength,
		"passed_locks":       s.PassedLocks,
		"passed_bounds":      s.PassedBounds,
		"rejection_rate_pct": strconv.FormatFloat(s.RejectionRatePct, 'g', -1, 64),
		"num_survivors":      s.NumSurvivors,
		"top_phrase":         s.TopPhrase,
		"top_scene":          s.TopScene,
		"top_dist_mi":        strconv.FormatFloat(s.TopMiles, 'g', -1, 64),
	}
}

// HashToSummary rebuilds a RunSummary from its hash fields.
func HashToSummary(hash map[string]string) (*RunSummary, error) {
	s := &RunSummary{
		RunID:     hash["run_id"],
		Version:   hash["solver_version"],
		Timestamp: hash["timestamp"],
		TopPhrase: hash["top_phrase"],
		TopScene:  hash["top_scene"],
	}

	ints := []struct {
		field string
		dst   *int64
	}{
		{"created_at_ms", &s.CreatedAtMs},
		{"duration_ms", &s.DurationMs},
		{"total_candidates", &s.TotalCandidates},
		{"passed_length", &s.PassedLength},
		{"passed_locks", &s.PassedLocks},
		{"passed_bounds", &s.PassedBounds},
	}
	for _, f := range ints {
		v, err := strconv.ParseInt(hash[f.field], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", f.field, err)
		}
		*f.dst = v
	}

	n, err := strconv.Atoi(hash["num_survivors"])
	if err != nil {
		return nil, fmt.Errorf("invalid num_survivors field: %w", err)
	}
	s.NumSurvivors = n

	if s.RejectionRatePct, err = strconv.ParseFloat(hash["rejection_rate_pct"], 64); err != nil {
		return nil, fmt.Errorf("invalid rejection_rate_pct field: %w", err)
	}
	if s.TopMiles, err = strconv.ParseFloat(hash["top_dist_mi"], 64); err != nil {
		return nil, fmt.Errorf("invalid top_dist_mi field: %w", err)
	}

	return s, nil
}
