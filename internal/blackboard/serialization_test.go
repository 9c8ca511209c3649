package blackboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() RunSummary {
	return RunSummary{
		RunID:            "2f0c1f7e-3b6c-4d7a-9f55-6a3c4e1b2d90",
		Version:          "2.0",
		Timestamp:        "2026-01-02T03:04:05.000000Z",
		CreatedAtMs:      1767323045000,
		DurationMs:       1234,
		TotalCandidates:  2044224,
		PassedLength:     154572,
		PassedLocks:      61,
		PassedBounds:     54,
		RejectionRatePct: 99.99735839283056,
		NumSurvivors:     54,
		TopPhrase:        "INTHREEANDTHREEEIGHTHSRADIANSTEN",
		TopScene:         "blue_rock_springs",
		TopMiles:         1.1534217,
	}
}

// toStrings mimics what HGETALL hands back.
func toStrings(hash map[string]interface{}) map[string]string {
	out := make(map[string]string, len(hash))
	for k, v := range hash {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func TestSummaryHashRoundTrip(t *testing.T) {
	original := sampleSummary()

	decoded, err := HashToSummary(toStrings(SummaryToHash(&original)))
	require.NoError(t, err)
	assert.Equal(t, original, *decoded)
}

func TestSummaryHashRoundTrip_NoSurvivors(t *testing.T) {
	original := sampleSummary()
	original.NumSurvivors = 0
	original.TopPhrase = ""
	original.TopScene = ""
	original.TopMiles = 0

	decoded, err := HashToSummary(toStrings(SummaryToHash(&original)))
	require.NoError(t, err)
	assert.Equal(t, original, *decoded)
}

func TestHashToSummary_InvalidFields(t *testing.T) {
	tests := []struct {
		field   string
		value   string
		wantErr string
	}{
		{"total_candidates", "lots", "invalid total_candidates field"},
		{"created_at_ms", "", "invalid created_at_ms field"},
		{"num_survivors", "1.5", "invalid num_survivors field"},
		{"rejection_rate_pct", "high", "invalid rejection_rate_pct field"},
		{"top_dist_mi", "near", "invalid top_dist_mi field"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			original := sampleSummary()
			hash := toStrings(SummaryToHash(&original))
			hash[tt.field] = tt.value

			_, err := HashToSummary(hash)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
