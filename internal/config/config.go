package config

import (
	"fmt"
	"os"

	"github.com/dyluth/z32/internal/geo"
	"gopkg.in/yaml.v3"
)

// Bounds is the map rectangle a projected point must fall inside.
type Bounds struct {
	South float64 `yaml:"south" json:"south"`
	North float64 `yaml:"north" json:"north"`
	West  float64 `yaml:"west" json:"west"`
	East  float64 `yaml:"east" json:"east"`
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Bounds) Contains(p geo.Point) bool {
	return b.South <= p.Lat && p.Lat <= b.North && b.West <= p.Lon && p.Lon <= b.East
}

// LockPair is a pair of 0-indexed cipher positions that must decode to the
// same letter.
type LockPair [2]int

// Reference is a named point survivors are scored against
type Reference struct {
	Label       string  `yaml:"label" json:"label"`
	Lat         float64 `yaml:"lat" json:"lat"`
	Lon         float64 `yaml:"lon" json:"lon"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Point returns the reference's coordinates.
func (r Reference) Point() geo.Point {
	return geo.Point{Lat: r.Lat, Lon: r.Lon}
}

// Config holds every constant the solver reads. A *Config returned by
// Default or Load has been validated and must be treated as read-only.
type Config struct {
	Anchor       geo.Point   `yaml:"anchor"`
	Declination  float64     `yaml:"declination_deg_east"`  // Magnetic declination, degrees east
	MapScale     float64     `yaml:"map_scale_mi_per_inch"` // Miles per map inch
	EarthRadius  float64     `yaml:"earth_radius_mi"`
	Bounds       Bounds      `yaml:"bounds"`
	Locks        []LockPair  `yaml:"locks"`
	CipherLength int         `yaml:"cipher_length"`
	References   []Reference `yaml:"references"` // Iteration order is the proximity tie-break order
}

// Default returns the canonical configuration: Mt. Diablo anchor, 1970
// declination, the Phillips 66 map scale and bounds, the Z32 homophonic
// locks and the four crime scenes.
func Default() *Config {
	return &Config{
		Anchor:      geo.Point{Lat: 37.881628, Lon: -121.914382},
		Declination: 17.0,
		MapScale:    6.4,
		EarthRadius: geo.EarthRadiusMiles,
		Bounds: Bounds{
			South: 37.3,
			North: 38.8,
			West:  -123.0,
			East:  -121.0,
		},
		Locks:        []LockPair{{0, 25}, {1, 31}, {5, 13}},
		CipherLength: 32,
		References: []Reference{
			{Label: "lake_herman_road", Lat: 38.0949, Lon: -122.1441, Description: "Lake Herman Road (12/20/1968)"},
			{Label: "blue_rock_springs", Lat: 38.1260, Lon: -122.1911, Description: "Blue Rock Springs (07/04/1969)"},
			{Label: "lake_berryessa", Lat: 38.5636, Lon: -122.2317, Description: "Lake Berryessa (09/27/1969)"},
			{Label: "presidio_heights", Lat: 37.7887, Lon: -122.4571, Description: "Presidio Heights (10/11/1969)"},
		},
	}
}

// Validate performs strict validation on the configuration
func (c *Config) Validate() error {
	if err := validPoint("anchor", c.Anchor.Lat, c.Anchor.Lon); err != nil {
		return err
	}

	if c.MapScale <= 0 {
		return fmt.Errorf("map_scale_mi_per_inch must be > 0, got %v", c.MapScale)
	}
	if c.EarthRadius <= 0 {
		return fmt.Errorf("earth_radius_mi must be > 0, got %v", c.EarthRadius)
	}

	b := c.Bounds
	if b.South >= b.North {
		return fmt.Errorf("bounds: south (%v) must be less than north (%v)", b.South, b.North)
	}
	if b.West >= b.East {
		return fmt.Errorf("bounds: west (%v) must be less than east (%v)", b.West, b.East)
	}

	if c.CipherLength <= 0 {
		return fmt.Errorf("cipher_length must be > 0, got %d", c.CipherLength)
	}

	// Lock indices are checked here so the filter never indexes out of range
	for n, lock := range c.Locks {
		for _, idx := range lock {
			if idx < 0 || idx >= c.CipherLength {
				return fmt.Errorf("lock %d (%d, %d): index %d outside [0, %d)", n, lock[0], lock[1], idx, c.CipherLength)
			}
		}
	}

	if len(c.References) == 0 {
		return fmt.Errorf("no reference points defined")
	}
	seen := make(map[string]bool, len(c.References))
	for n, ref := range c.References {
		if ref.Label == "" {
			return fmt.Errorf("reference %d: label is required", n)
		}
		if seen[ref.Label] {
			return fmt.Errorf("duplicate reference label '%s'", ref.Label)
		}
		seen[ref.Label] = true
		if err := validPoint(fmt.Sprintf("reference '%s'", ref.Label), ref.Lat, ref.Lon); err != nil {
			return err
		}
	}

	return nil
}

func validPoint(what string, lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%s: latitude %v outside [-90, 90]", what, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%s: longitude %v outside [-180, 180]", what, lon)
	}
	return nil
}

// Load reads a YAML configuration from path. Fields absent from the file
// keep their Default values; lists present in the file replace the defaults
// wholesale.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes cfg to path as YAML. Existing files are not overwritten.
func Save(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
