package profile

import (
	"fmt"

	"BarScope/internal/domain/models"
)

// TPOLevel is one rung of a letter profile: a price level and the labels of
// every time period that traded through it.
type TPOLevel struct {
	Price   float64  `json:"price"`
	Letters []string `json:"letters"`
}

// TPOProfile is a letter profile in descending-price order.
type TPOProfile []TPOLevel

// BuildTPO builds the time-price-opportunity map for one session. Each bar,
// labeled by its position in the sequence, marks every ladder level p with
// round(low,3) <= p <= round(high,3) + granularity. Any positive granularity
// is accepted.
func BuildTPO(bars []models.Bar, granularity float64) (TPOProfile, error) {
	step, err := stepFor(granularity)
	if err != nil {
		return nil, err
	}
	if err := checkSeries(bars); err != nil {
		return nil, err
	}

	lad := ladderOver(bars, step)
	marks := make(map[milli][]string, lad.size())
	labels := Letters(len(bars))

	for i, b := range bars {
		lo := toMilli(b.Low)
		hi := toMilli(b.High) + step
		for m := lad.min; m < lad.max; m += lad.step {
			if m >= lo && m <= hi {
				marks[m] = append(marks[m], labels[i])
			}
		}
	}

	// Descending-price order for presentation.
	out := make(TPOProfile, 0, lad.size())
	top := lad.min + milli(lad.size()-1)*lad.step
	for m := top; m >= lad.min; m -= lad.step {
		out = append(out, TPOLevel{Price: m.price(), Letters: marks[m]})
	}
	return out, nil
}

func checkSeries(bars []models.Bar) error {
	if len(bars) == 0 {
		return ErrEmptySeries
	}
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: bar %d: %v", ErrSchemaMismatch, i, err)
		}
	}
	return nil
}
