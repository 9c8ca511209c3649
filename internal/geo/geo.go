// Package geo provides the spherical-earth math used by the solver:
// great-circle distance, bearings, clock-face conversion and forward
// projection. All angles are in degrees unless a name says otherwise.
package geo

import "math"

// EarthRadiusMiles is the mean earth radius used when no radius is configured.
const EarthRadiusMiles = 3958.8

// milesPerDegree is the flat-earth approximation used by ToLocalMiles.
const milesPerDegree = 69.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeBearing maps any angle into [0, 360).
func NormalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	// math.Mod(-1e-15, 360) + 360 rounds to 360
	if b >= 360 {
		b = 0
	}
	return b
}

// Haversine returns the great-circle distance between a and b on a sphere
// of the given radius. The result is in the radius' unit.
func Haversine(a, b Point, radius float64) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dlat := lat2 - lat1
	dlon := radians(b.Lon - a.Lon)
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return radius * 2 * math.Asin(math.Sqrt(h))
}

// TrueBearing returns the initial great-circle bearing from -> to,
// clockwise from true north, in [0, 360).
func TrueBearing(from, to Point) float64 {
	lat1, lat2 := radians(from.Lat), radians(to.Lat)
	dlon := radians(to.Lon - from.Lon)
	x := math.Sin(dlon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	return NormalizeBearing(degrees(math.Atan2(x, y)))
}

// MagneticBearing is TrueBearing minus an easterly declination.
func MagneticBearing(from, to Point, declinationEast float64) float64 {
	return NormalizeBearing(TrueBearing(from, to) - declinationEast)
}

// ClockHourToBearing converts a clock-face hour to a bearing. Twelve o'clock
// is 0 degrees, never 360.
func ClockHourToBearing(hour int) float64 {
	return float64(hour%12) * 30
}

// BearingToClock converts a bearing to a continuous clock-face position in
// (0, 12]. A bearing of zero reads as 12.
func BearingToClock(bearing float64) float64 {
	hour := NormalizeBearing(bearing) / 30
	if math.Abs(hour) < 1e-12 {
		return 12
	}
	return hour
}

// Project returns the point reached by travelling distance along the great
// circle leaving start at the given true bearing.
func Project(start Point, bearing, distance, radius float64) Point {
	lat1 := radians(start.Lat)
	lon1 := radians(start.Lon)
	brng := radians(bearing)
	d := distance / radius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)
	return Point{Lat: degrees(lat2), Lon: degrees(lon2)}
}

// AngularSeparation is the smallest absolute difference between two bearings.
func AngularSeparation(a, b float64) float64 {
	diff := math.Mod(a-b+180, 360)
	if diff < 0 {
		diff += 360
	}
	return math.Abs(diff - 180)
}

// AngleFromSides returns the interior angle opposite the side `opposite`
// of a triangle with the two adjacent sides adj1 and adj2 (law of cosines).
func AngleFromSides(adj1, adj2, opposite float64) float64 {
	denom := math.Max(2*adj1*adj2, 1e-12)
	c := (adj1*adj1 + adj2*adj2 - opposite*opposite) / denom
	c = math.Max(math.Min(c, 1), -1)
	return degrees(math.Acos(c))
}

// XY is a point on a local tangent plane, in miles.
type XY struct {
	X, Y float64
}

// ToLocalMiles projects p onto a tangent plane centred on origin. Good
// enough across a region tens of miles wide.
func ToLocalMiles(p, origin Point) XY {
	return XY{
		X: (p.Lon - origin.Lon) * milesPerDegree * math.Cos(radians(origin.Lat)),
		Y: (p.Lat - origin.Lat) * milesPerDegree,
	}
}

// Dist is the planar distance between two tangent-plane points.
func (p XY) Dist(q XY) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// SamplePointInTriangle maps two uniform variates r1, r2 in [0,1) to a
// uniformly distributed point inside triangle abc.
func SamplePointInTriangle(a, b, c XY, r1, r2 float64) XY {
	s := math.Sqrt(r1)
	return XY{
		X: (1-s)*a.X + s*(1-r2)*b.X + s*r2*c.X,
		Y: (1-s)*a.Y + s*(1-r2)*b.Y + s*r2*c.Y,
	}
}
