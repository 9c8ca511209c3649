// Package lexicon enumerates the candidate plaintext phrases: every
// combination of a spelled distance, a clock hour, a fraction, unit words,
// a prefix and a token-ordering template.
//
// Enumeration is lazy and restartable. Order, outermost first: distance
// integer, clock hour, fraction, radian unit, then prefix x templates A-F,
// then inch unit x prefix x templates G-L. Every candidate carries its
// zero-based sequence index in that order.
package lexicon

import (
	"fmt"
	"iter"
	"strings"
)

// MaxHour is the largest clock hour; hours run 1..MaxHour.
const MaxHour = 12

// Lexicon is the vocabulary and template set phrases are built from.
type Lexicon struct {
	Numbers     []string // Numbers[n] spells n; must cover 0..MaxHour; distances run 0..len-1
	Fractions   []Fraction
	Prefixes    []string
	RadianUnits []string
	InchUnits   []string // empty entries are skipped by inch templates
	Templates   []Template
}

// Default returns the canonical lexicon (2,044,224 candidates).
func Default() *Lexicon {
	return &Lexicon{
		Numbers:     append([]string(nil), numberWords...),
		Fractions:   append([]Fraction(nil), fractions...),
		Prefixes:    append([]string(nil), prefixes...),
		RadianUnits: append([]string(nil), radianUnits...),
		InchUnits:   append([]string(nil), inchUnits...),
		Templates:   append([]Template(nil), templates...),
	}
}

// Validate checks the lexicon can be enumerated: every clock hour has a
// spelling and each axis offers at least one choice.
func (l *Lexicon) Validate() error {
	if len(l.Numbers) <= MaxHour {
		return fmt.Errorf("numbers must spell 0..%d, got %d words", MaxHour, len(l.Numbers))
	}
	if len(l.Fractions) == 0 {
		return fmt.Errorf("at least one fraction is required")
	}
	for i, f := range l.Fractions {
		if f.Den <= 0 {
			return fmt.Errorf("fraction %d: denominator must be > 0, got %d", i, f.Den)
		}
	}
	if len(l.Prefixes) == 0 {
		return fmt.Errorf("at least one prefix is required (use \"\" for none)")
	}
	if len(l.RadianUnits) == 0 {
		return fmt.Errorf("at least one radian unit is required")
	}
	if len(l.Templates) == 0 {
		return fmt.Errorf("at least one template is required")
	}
	seen := make(map[string]bool, len(l.Templates))
	for i, t := range l.Templates {
		if t.ID == "" {
			return fmt.Errorf("template %d: ID is required", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate template ID '%s'", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// Sizes holds per-axis vocabulary cardinalities.
type Sizes struct {
	Integers  int `json:"integers"`
	Fractions int `json:"fractions"`
	Prefixes  int `json:"prefixes"`
	RadUnits  int `json:"rad_units"`
	DistUnits int `json:"dist_units"`
	Templates int `json:"templates"`
}

// Sizes reports the vocabulary size of each axis.
func (l *Lexicon) Sizes() Sizes {
	return Sizes{
		Integers:  len(l.Numbers),
		Fractions: len(l.Fractions),
		Prefixes:  len(l.Prefixes),
		RadUnits:  len(l.RadianUnits),
		DistUnits: len(l.InchUnits),
		Templates: len(l.Templates),
	}
}

// Distances is the number of distance integers, i.e. the number of shards.
func (l *Lexicon) Distances() int {
	return len(l.Numbers)
}

func (l *Lexicon) split() (plain, withInch []*Template, inches []string) {
	for i := range l.Templates {
		if l.Templates[i].UsesInch() {
			withInch = append(withInch, &l.Templates[i])
		} else {
			plain = append(plain, &l.Templates[i])
		}
	}
	for _, u := range l.InchUnits {
		if u != "" {
			inches = append(inches, u)
		}
	}
	return plain, withInch, inches
}

// PerDistance is the number of candidates generated for each distance integer.
func (l *Lexicon) PerDistance() int64 {
	plain, withInch, inches := l.split()
	perUnit := len(l.Prefixes)*len(plain) + len(inches)*len(l.Prefixes)*len(withInch)
	return int64(MaxHour) * int64(len(l.Fractions)) * int64(len(l.RadianUnits)) * int64(perUnit)
}

// Count is the total number of candidates.
func (l *Lexicon) Count() int64 {
	return int64(l.Distances()) * l.PerDistance()
}

// All yields every candidate in enumeration order.
func (l *Lexicon) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for whole := range l.Distances() {
			if !l.enumerate(whole, yield) {
				return
			}
		}
	}
}

// Shard yields the candidates for a single distance integer. Sequence
// indexes match those All assigns, so shards can be processed
// independently and merged.
func (l *Lexicon) Shard(whole int) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if whole < 0 || whole >= l.Distances() {
			return
		}
		l.enumerate(whole, yield)
	}
}

func (l *Lexicon) enumerate(whole int, yield func(Candidate) bool) bool {
	plain, withInch, inches := l.split()
	seq := int64(whole) * l.PerDistance()

	emit := func(c Candidate) bool {
		c.Seq = seq
		c.Phrase = c.assemble()
		seq++
		return yield(c)
	}

	for h := 1; h <= MaxHour; h++ {
		for fi := range l.Fractions {
			for _, r := range l.RadianUnits {
				c := Candidate{
					Whole:        whole,
					DistanceWord: l.Numbers[whole],
					Fraction:     &l.Fractions[fi],
					Hour:         h,
					HourWord:     l.Numbers[h],
					Radian:       r,
				}
				for _, p := range l.Prefixes {
					c.Prefix = p
					for _, t := range plain {
						c.Template = t
						if !emit(c) {
							return false
						}
					}
				}
				for _, u := range inches {
					c.Inch = u
					for _, p := range l.Prefixes {
						c.Prefix = p
						for _, t := range withInch {
							c.Template = t
							if !emit(c) {
								return false
							}
						}
					}
				}
			}
		}
	}
	return true
}

// Candidate is one generated phrase with the numbers it encodes.
type Candidate struct {
	Seq          int64
	Phrase       string
	Whole        int // integer part of the distance
	DistanceWord string
	Fraction     *Fraction
	Hour         int
	HourWord     string
	Prefix       string
	Radian       string
	Inch         string
	Template     *Template
}

// Distance is the encoded distance in map inches.
func (c Candidate) Distance() float64 {
	return float64(c.Whole) + c.Fraction.Value()
}

// TemplateID names the grammar that produced the phrase.
func (c Candidate) TemplateID() string {
	return c.Template.ID
}

// Words returns the phrase's words in template order.
func (c Candidate) Words() []string {
	words := make([]string, 0, 8)
	for _, s := range c.Template.Slots {
		switch s {
		case SlotPrefix:
			if c.Prefix != "" {
				words = append(words, c.Prefix)
			}
		case SlotDistance:
			words = append(words, c.DistanceWord)
		case SlotFraction:
			words = append(words, c.Fraction.Words...)
		case SlotRadian:
			words = append(words, c.Radian)
		case SlotInch:
			if c.Inch != "" {
				words = append(words, c.Inch)
			}
		case SlotHour:
			words = append(words, c.HourWord)
		}
	}
	return words
}

// Readable is the phrase with spaces between words.
func (c Candidate) Readable() string {
	return strings.Join(c.Words(), " ")
}

func (c Candidate) assemble() string {
	var b strings.Builder
	b.Grow(48)
	for _, s := range c.Template.Slots {
		switch s {
		case SlotPrefix:
			b.WriteString(c.Prefix)
		case SlotDistance:
			b.WriteString(c.DistanceWord)
		case SlotFraction:
			for _, w := range c.Fraction.Words {
				b.WriteString(w)
			}
		case SlotRadian:
			b.WriteString(c.Radian)
		case SlotInch:
			b.WriteString(c.Inch)
		case SlotHour:
			b.WriteString(c.HourWord)
		}
	}
	return b.String()
}
