package solver

import (
	"cmp"
	"slices"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/filter"
	"github.com/dyluth/z32/internal/lexicon"
)

// Counts tracks how many candidates reached each stage.
type Counts struct {
	Total        int64 `json:"total_candidates"`
	PassedLength int64 `json:"passed_length"`
	PassedLocks  int64 `json:"passed_locks"`
	PassedBounds int64 `json:"passed_bounds"`
}

// RejectionRatePct is (1 - passed_bounds/total) * 100. An empty run
// reports 0.
func (c Counts) RejectionRatePct() float64 {
	if c.Total == 0 {
		return 0
	}
	return (1 - float64(c.PassedBounds)/float64(c.Total)) * 100
}

func (c *Counts) add(o Counts) {
	c.Total += o.Total
	c.PassedLength += o.PassedLength
	c.PassedLocks += o.PassedLocks
	c.PassedBounds += o.PassedBounds
}

// Survivor is a candidate that passed every stage, with where it lands and
// what it lands near.
type Survivor struct {
	Seq          int64   `json:"-"`
	Phrase       string  `json:"phrase"`
	Readable     string  `json:"readable"`
	Distance     float64 `json:"distance_inches"`
	ClockHour    int     `json:"clock_hour"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	NearestLabel string  `json:"nearest_scene"`
	NearestMiles float64 `json:"nearest_dist_mi"`
	Template     string  `json:"template"`
}

// Aggregator runs candidates through the stages and keeps the counters
// and survivors. It is not safe for concurrent use; parallel runs give each
// worker its own Aggregator and Merge them afterwards.
type Aggregator struct {
	cfg       *config.Config
	criteria  filter.Criteria
	counts    Counts
	survivors []Survivor
	templates map[string]int
}

// NewAggregator returns an empty Aggregator for a validated configuration.
func NewAggregator(cfg *config.Config) *Aggregator {
	return &Aggregator{
		cfg:       cfg,
		criteria:  filter.FromConfig(cfg),
		templates: make(map[string]int),
	}
}

// Observe pushes one candidate through length, locks, projection, bounds
// and scoring, and reports the stage it stopped at.
func (a *Aggregator) Observe(c lexicon.Candidate) filter.Stage {
	a.counts.Total++

	switch stage := a.criteria.Check(c.Phrase); stage {
	case filter.RejectedLength:
		return stage
	case filter.RejectedLocks:
		a.counts.PassedLength++
		return stage
	}
	a.counts.PassedLength++
	a.counts.PassedLocks++

	distance := c.Distance()
	proj := Project(a.cfg, distance, c.Hour)
	if !filter.InBounds(proj.Point, a.cfg.Bounds) {
		return filter.RejectedBounds
	}
	a.counts.PassedBounds++

	near := NearestReference(proj.Point, a.cfg.References, a.cfg.EarthRadius)
	a.templates[c.TemplateID()]++
	a.survivors = append(a.survivors, Survivor{
		Seq:          c.Seq,
		Phrase:       c.Phrase,
		Readable:     c.Readable(),
		Distance:     distance,
		ClockHour:    c.Hour,
		Latitude:     proj.Point.Lat,
		Longitude:    proj.Point.Lon,
		NearestLabel: near.Label,
		NearestMiles: near.Miles,
		Template:     c.TemplateID(),
	})
	return filter.Passed
}

// Merge folds another Aggregator's counters and survivors into a.
func (a *Aggregator) Merge(o *Aggregator) {
	a.counts.add(o.counts)
	a.survivors = append(a.survivors, o.survivors...)
	for id, n := range o.templates {
		a.templates[id] += n
	}
}

// Counts returns the counters so far.
func (a *Aggregator) Counts() Counts {
	return a.counts
}

// Survivors returns the survivors sorted by nearest-reference distance,
// ties broken by enumeration order.
func (a *Aggregator) Survivors() []Survivor {
	out := slices.Clone(a.survivors)
	slices.SortStableFunc(out, func(x, y Survivor) int {
		return cmp.Or(
			cmp.Compare(x.NearestMiles, y.NearestMiles),
			cmp.Compare(x.Seq, y.Seq),
		)
	})
	return out
}

// TemplateSurvivors returns survivor counts per template ID.
func (a *Aggregator) TemplateSurvivors() map[string]int {
	out := make(map[string]int, len(a.templates))
	for id, n := range a.templates {
		out[id] = n
	}
	return out
}
