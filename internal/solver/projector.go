package solver

import (
	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/geo"
)

// Projection is a phrase's distance and clock hour turned into a place on
// the map.
type Projection struct {
	Miles           float64
	MagneticBearing float64
	TrueBearing     float64
	Point           geo.Point
}

// Project scales distance (map inches) to miles, reads the clock hour as a
// magnetic bearing, corrects it by the configured declination and walks
// that far from the anchor.
func Project(cfg *config.Config, distance float64, hour int) Projection {
	miles := distance * cfg.MapScale
	magnetic := geo.ClockHourToBearing(hour)
	bearing := geo.NormalizeBearing(magnetic + cfg.Declination)
	return Projection{
		Miles:           miles,
		MagneticBearing: magnetic,
		TrueBearing:     bearing,
		Point:           geo.Project(cfg.Anchor, bearing, miles, cfg.EarthRadius),
	}
}
