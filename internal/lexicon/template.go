package lexicon

// Slot is one position in a template.
type Slot int

const (
	SlotPrefix Slot = iota
	SlotDistance
	SlotFraction
	SlotRadian
	SlotInch
	SlotHour
)

// Template is a token ordering used to assemble a phrase. The ID is carried
// on every candidate so survivors can be attributed to their grammar.
type Template struct {
	ID    string
	Slots []Slot
}

// UsesInch reports whether the template has an inch slot.
func (t Template) UsesInch() bool {
	for _, s := range t.Slots {
		if s == SlotInch {
			return true
		}
	}
	return false
}

const (
	pre  = SlotPrefix
	dist = SlotDistance
	fr   = SlotFraction
	rad  = SlotRadian
	inch = SlotInch
	hour = SlotHour
)

// Templates A-F carry no inch word; G-L do.
var templates = []Template{
	{ID: "A", Slots: []Slot{pre, dist, fr, rad, hour}},
	{ID: "B", Slots: []Slot{pre, hour, rad, dist, fr}},
	{ID: "C", Slots: []Slot{pre, dist, fr, hour, rad}},
	{ID: "D", Slots: []Slot{pre, hour, dist, fr, rad}},
	{ID: "E", Slots: []Slot{pre, rad, hour, dist, fr}},
	{ID: "F", Slots: []Slot{pre, rad, dist, fr, hour}},
	{ID: "G", Slots: []Slot{pre, dist, fr, inch, rad, hour}},
	{ID: "H", Slots: []Slot{pre, dist, fr, inch, hour, rad}},
	{ID: "I", Slots: []Slot{pre, hour, rad, dist, fr, inch}},
	{ID: "J", Slots: []Slot{pre, hour, dist, fr, inch, rad}},
	{ID: "K", Slots: []Slot{pre, inch, dist, fr, rad, hour}},
	{ID: "L", Slots: []Slot{pre, rad, hour, inch, dist, fr}},
}
