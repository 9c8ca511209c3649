package solver

import (
	"math"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/geo"
)

// Nearest is the closest reference point to a location.
type Nearest struct {
	Label string
	Miles float64
}

// NearestReference returns the reference closest to p by haversine
// distance. Ties go to the reference listed first.
func NearestReference(p geo.Point, refs []config.Reference, radius float64) Nearest {
	best := Nearest{Miles: math.Inf(1)}
	for _, ref := range refs {
		d := geo.Haversine(p, ref.Point(), radius)
		if d < best.Miles {
			best = Nearest{Label: ref.Label, Miles: d}
		}
	}
	return best
}
