package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/z32/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 32, cfg.CipherLength)
	assert.Equal(t, []LockPair{{0, 25}, {1, 31}, {5, 13}}, cfg.Locks)
	assert.Equal(t, 17.0, cfg.Declination)
	assert.Equal(t, 6.4, cfg.MapScale)
	assert.Equal(t, geo.EarthRadiusMiles, cfg.EarthRadius)
	assert.Len(t, cfg.References, 4)
	assert.Equal(t, "lake_herman_road", cfg.References[0].Label)
}

func TestDefault_ReturnsFreshValue(t *testing.T) {
	a := Default()
	a.Locks[0] = LockPair{9, 9}
	a.References[0].Label = "changed"

	b := Default()
	assert.Equal(t, LockPair{0, 25}, b.Locks[0])
	assert.Equal(t, "lake_herman_road", b.References[0].Label)
}

func TestBounds_Contains(t *testing.T) {
	b := Default().Bounds

	tests := []struct {
		name string
		p    geo.Point
		want bool
	}{
		{"inside", geo.Point{Lat: 38.1, Lon: -122.2}, true},
		{"south edge", geo.Point{Lat: 37.3, Lon: -122}, true},
		{"north edge", geo.Point{Lat: 38.8, Lon: -122}, true},
		{"west edge", geo.Point{Lat: 38, Lon: -123.0}, true},
		{"east edge", geo.Point{Lat: 38, Lon: -121.0}, true},
		{"too far south", geo.Point{Lat: 37.29, Lon: -122}, false},
		{"too far north", geo.Point{Lat: 38.81, Lon: -122}, false},
		{"too far west", geo.Point{Lat: 38, Lon: -123.01}, false},
		{"too far east", geo.Point{Lat: 38, Lon: -120.99}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(tt.p))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"lock index past end", func(c *Config) { c.Locks = append(c.Locks, LockPair{3, 32}) }, "index 32 outside [0, 32)"},
		{"negative lock index", func(c *Config) { c.Locks = []LockPair{{-1, 4}} }, "index -1 outside"},
		{"zero cipher length", func(c *Config) { c.CipherLength = 0 }, "cipher_length must be > 0"},
		{"zero scale", func(c *Config) { c.MapScale = 0 }, "map_scale_mi_per_inch must be > 0"},
		{"zero radius", func(c *Config) { c.EarthRadius = 0 }, "earth_radius_mi must be > 0"},
		{"inverted latitude bounds", func(c *Config) { c.Bounds.South, c.Bounds.North = 39, 38 }, "south (39) must be less than north (38)"},
		{"inverted longitude bounds", func(c *Config) { c.Bounds.West = -120 }, "west (-120) must be less than east (-121)"},
		{"no references", func(c *Config) { c.References = nil }, "no reference points defined"},
		{"unlabelled reference", func(c *Config) { c.References[1].Label = "" }, "reference 1: label is required"},
		{"duplicate reference", func(c *Config) { c.References[1].Label = c.References[0].Label }, "duplicate reference label 'lake_herman_road'"},
		{"reference latitude", func(c *Config) { c.References[2].Lat = 91 }, "latitude 91 outside"},
		{"anchor longitude", func(c *Config) { c.Anchor.Lon = -200 }, "anchor: longitude -200 outside"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "z32.yml")

	partial := `declination_deg_east: 15.5
bounds:
  north: 39.0
locks:
  - [0, 25]
`
	require.NoError(t, os.WriteFile(configPath, []byte(partial), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 15.5, cfg.Declination)
	assert.Equal(t, 39.0, cfg.Bounds.North)
	assert.Equal(t, 37.3, cfg.Bounds.South, "untouched bound keeps default")
	assert.Equal(t, []LockPair{{0, 25}}, cfg.Locks)
	assert.Equal(t, 6.4, cfg.MapScale)
	assert.Len(t, cfg.References, 4)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/z32.yml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "z32.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("locks: [[0, 25\n  - nope"), 0644))

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_InvalidLock(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "z32.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("locks:\n  - [0, 40]\n"), 0644))

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestSave_RoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "z32.yml")

	require.NoError(t, Save(configPath, Default()))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSave_RefusesOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "z32.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("keep me"), 0644))

	err := Save(configPath, Default())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, readErr := os.ReadFile(configPath)
	require.NoError(t, readErr)
	assert.Equal(t, "keep me", string(data))
}
