package blackboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPatterns(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"run key", RunKey("prod", "abc"), "z32:prod:run:abc"},
		{"survivors key", SurvivorsKey("prod", "abc"), "z32:prod:run:abc:survivors"},
		{"runs index", RunsKey("prod"), "z32:prod:runs"},
		{"run events", RunEventsChannel("prod"), "z32:prod:run_events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestKeysAreInstanceScoped(t *testing.T) {
	assert.NotEqual(t, RunKey("a", "run"), RunKey("b", "run"))
	assert.NotEqual(t, RunsKey("a"), RunsKey("b"))
	assert.NotEqual(t, RunEventsChannel("a"), RunEventsChannel("b"))
}

func TestValidateInstanceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "simple", input: "default"},
		{name: "single char", input: "a"},
		{name: "hyphenated", input: "prod-2"},
		{name: "max length", input: strings.Repeat("a", MaxInstanceNameLength)},
		{name: "empty", input: "", wantErr: "cannot be empty"},
		{name: "too long", input: strings.Repeat("a", MaxInstanceNameLength+1), wantErr: "too long"},
		{name: "uppercase", input: "Prod", wantErr: "invalid instance name"},
		{name: "leading hyphen", input: "-prod", wantErr: "invalid instance name"},
		{name: "trailing hyphen", input: "prod-", wantErr: "invalid instance name"},
		{name: "colon", input: "a:b", wantErr: "invalid instance name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstanceName(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
