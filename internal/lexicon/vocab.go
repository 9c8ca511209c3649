package lexicon

import "strings"

// Fraction is a spelled-out fractional part, e.g. AND THREE EIGHTHS = 3/8.
// The empty fraction has no words and value 0.
type Fraction struct {
	Words []string
	Num   int
	Den   int
}

// Token is the fraction as it appears inside a phrase.
func (f Fraction) Token() string {
	return strings.Join(f.Words, "")
}

// Value is Num/Den.
func (f Fraction) Value() float64 {
	return float64(f.Num) / float64(f.Den)
}

func frac(num, den int, words ...string) Fraction {
	return Fraction{Words: append([]string{"AND"}, words...), Num: num, Den: den}
}

// numberWords spells the integers 0..12; the index is the value.
var numberWords = []string{
	"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX",
	"SEVEN", "EIGHT", "NINE", "TEN", "ELEVEN", "TWELVE",
}

var fractions = []Fraction{
	{Num: 0, Den: 1},
	frac(1, 2, "A", "HALF"),
	frac(1, 2, "ONE", "HALF"),
	frac(1, 3, "A", "THIRD"),
	frac(1, 3, "ONE", "THIRD"),
	frac(2, 3, "TWO", "THIRDS"),
	frac(1, 4, "A", "QUARTER"),
	frac(1, 4, "ONE", "QUARTER"),
	frac(1, 4, "A", "FOURTH"),
	frac(1, 4, "ONE", "FOURTH"),
	frac(3, 4, "THREE", "QUARTERS"),
	frac(3, 4, "THREE", "FOURTHS"),
	frac(1, 8, "AN", "EIGHTH"),
	frac(1, 8, "ONE", "EIGHTH"),
	frac(3, 8, "THREE", "EIGHTHS"),
	frac(5, 8, "FIVE", "EIGHTHS"),
	frac(7, 8, "SEVEN", "EIGHTHS"),
	frac(1, 16, "A", "SIXTEENTH"),
	frac(1, 16, "ONE", "SIXTEENTH"),
	frac(3, 16, "THREE", "SIXTEENTHS"),
	frac(5, 16, "FIVE", "SIXTEENTHS"),
	frac(7, 16, "SEVEN", "SIXTEENTHS"),
	frac(9, 16, "NINE", "SIXTEENTHS"),
	frac(11, 16, "ELEVEN", "SIXTEENTHS"),
	frac(13, 16, "THIRTEEN", "SIXTEENTHS"),
	frac(15, 16, "FIFTEEN", "SIXTEENTHS"),
}

var prefixes = []string{"", "IN", "AT", "TO", "BY", "GO", "ON"}

var radianUnits = []string{"RAD", "RADS", "RADIAN", "RADIANS"}

// The empty inch unit is listed so the axis size matches the published
// lexicon, but inch templates skip it: an inch template without an inch
// word would duplicate a non-inch template.
var inchUnits = []string{"", "INCH", "INCHES"}
