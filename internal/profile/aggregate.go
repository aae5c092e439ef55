package profile

import (
	"fmt"
	"sort"

	"BarScope/internal/domain/models"
)

// Mode selects what an aggregate profile accumulates per bucket.
type Mode string

const (
	// ModeCount counts price occurrences (Market Profile).
	ModeCount Mode = "count"
	// ModeVolume apportions each bar's volume across the levels it touched
	// (Volume Profile).
	ModeVolume Mode = "volume"
)

// ParseMode maps the wire value onto a Mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeCount, ModeVolume:
		return Mode(s), true
	}
	return "", false
}

// Level is one bucket of an aggregate profile.
type Level struct {
	Price float64 `json:"price"`
	Mass  float64 `json:"mass"`
}

// AggregateProfile holds count or volume mass per price bucket in
// descending-price order.
type AggregateProfile []Level

// BuildAggregate buckets a session's bars at the requested granularity.
//
// The accumulation runs in two passes. First a fine occupancy table at the
// 0.001 step: every fine level inside [low, high) of a bar receives +1 in
// count mode or volume/levelsTouched in volume mode. Volume is apportioned
// at the fine step even though the presentation is coarser; re-apportioning
// at the coarse step would change the numbers whenever bar ranges are not
// exact multiples of the granularity. Second, the fine table is re-bucketed
// by flooring each fine key to the nearest coarse multiple and summing.
func BuildAggregate(bars []models.Bar, granularity float64, mode Mode) (AggregateProfile, error) {
	step, err := aggregateStepFor(granularity)
	if err != nil {
		return nil, err
	}
	if mode != ModeCount && mode != ModeVolume {
		return nil, fmt.Errorf("unknown profile mode: %s", mode)
	}
	if err := checkSeries(bars); err != nil {
		return nil, err
	}

	lad := ladderOver(bars, fineStep)
	fine := make([]float64, lad.max-lad.min)

	for _, b := range bars {
		lo := toMilli(b.Low)
		hi := toMilli(b.High)
		touched := int64(hi - lo)
		if touched <= 0 {
			// A bar spanning no fine level contributes nothing.
			continue
		}
		w := 1.0
		if mode == ModeVolume {
			w = b.Volume / float64(touched)
		}
		for m := lo; m < hi; m++ {
			fine[m-lad.min] += w
		}
	}

	// Re-bucket: floor each fine key to its coarse multiple. Coarse keys are
	// multiples of the step and may start below the ladder floor.
	first := (lad.min / step) * step
	coarse := make(map[milli]float64)
	for i, v := range fine {
		m := lad.min + milli(i)
		coarse[(m/step)*step] += v
	}

	out := make(AggregateProfile, 0, len(coarse))
	last := ((lad.max - 1) / step) * step
	for m := last; m >= first; m -= step {
		if v, ok := coarse[m]; ok {
			out = append(out, Level{Price: m.price(), Mass: v})
		}
	}
	return out, nil
}

// ValueArea is the derived (PoC, VAH, VAL) triple over an aggregate profile.
// VAL <= PoC <= VAH always holds.
type ValueArea struct {
	PoC float64 `json:"poc"`
	VAH float64 `json:"vah"`
	VAL float64 `json:"val"`
}

// DefaultValueAreaFraction is the share of total mass the value area covers.
const DefaultValueAreaFraction = 0.70

// ValueArea derives the point of control and the value area bounds.
//
// PoC is the bucket with maximum mass; on ties the first hit in the
// descending-price iteration wins, i.e. the highest price among equal
// maxima. The value area is built greedily: buckets sorted by mass
// descending (stable, so equal masses keep their descending-price order)
// are accumulated until their cumulative mass reaches fraction of the
// total; VAH and VAL are the highest and lowest selected prices.
func (p AggregateProfile) ValueArea(fraction float64) (ValueArea, error) {
	if len(p) == 0 {
		return ValueArea{}, ErrEmptySeries
	}
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultValueAreaFraction
	}

	var total float64
	poc := p[0]
	for _, lv := range p {
		total += lv.Mass
		if lv.Mass > poc.Mass {
			poc = lv
		}
	}

	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return p[idx[a]].Mass > p[idx[b]].Mass
	})

	threshold := total * fraction
	var cum float64
	vah, val := poc.Price, poc.Price
	for _, i := range idx {
		cum += p[i].Mass
		if p[i].Price > vah {
			vah = p[i].Price
		}
		if p[i].Price < val {
			val = p[i].Price
		}
		if cum >= threshold {
			break
		}
	}
	return ValueArea{PoC: poc.Price, VAH: vah, VAL: val}, nil
}

// TotalMass sums the profile's buckets.
func (p AggregateProfile) TotalMass() float64 {
	var total float64
	for _, lv := range p {
		total += lv.Mass
	}
	return total
}
