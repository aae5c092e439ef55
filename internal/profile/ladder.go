package profile

import (
	"math"

	"BarScope/internal/domain/models"
)

// Prices are bucketed at a fixed three-decimal precision. Keying buckets on
// rounded floats silently drops levels when the binary representation
// drifts, so internally every price is a scaled integer: a milli is the
// price multiplied by 1000. Floats only appear at the package boundary.
type milli int64

func (m milli) price() float64 { return float64(m) / 1000 }

func toMilli(p float64) milli   { return milli(math.Round(p * 1000)) }
func floorMilli(p float64) milli { return milli(math.Floor(p * 1000)) }
func ceilMilli(p float64) milli  { return milli(math.Ceil(p * 1000)) }

// fineStep is the resolution of the occupancy table: one milli, i.e. 0.001.
const fineStep milli = 1

// aggregateSteps is the accepted granularity set for count/volume profiles,
// in millis.
var aggregateSteps = map[milli]bool{
	1: true, 5: true, 10: true, 20: true, 50: true, 100: true, 250: true,
}

// stepFor converts a granularity to millis, requiring only positivity.
// Granularities below 0.001 cannot be represented on the 3-decimal ladder.
func stepFor(granularity float64) (milli, error) {
	if granularity <= 0 {
		return 0, ErrInvalidGranularity
	}
	step := toMilli(granularity)
	if step < 1 || math.Abs(granularity*1000-float64(step)) > 1e-6 {
		return 0, ErrInvalidGranularity
	}
	return step, nil
}

// aggregateStepFor additionally restricts the granularity to the accepted
// set {0.001, 0.005, 0.01, 0.02, 0.05, 0.10, 0.25}.
func aggregateStepFor(granularity float64) (milli, error) {
	step, err := stepFor(granularity)
	if err != nil {
		return 0, err
	}
	if !aggregateSteps[step] {
		return 0, ErrInvalidGranularity
	}
	return step, nil
}

// ladder is the ordered set of discrete levels min, min+step, ... < max.
type ladder struct {
	min  milli
	max  milli
	step milli
}

// newLadder spans [floor(low, 3dp), ceil(high, 3dp)) at the given step.
func newLadder(low, high float64, step milli) ladder {
	return ladder{min: floorMilli(low), max: ceilMilli(high), step: step}
}

// ladderOver spans the full Open/High/Low/Close range of the sequence.
func ladderOver(bars []models.Bar, step milli) ladder {
	lo, hi := bars[0].Low, bars[0].High
	for _, b := range bars {
		for _, p := range [4]float64{b.Open, b.High, b.Low, b.Close} {
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
	}
	return newLadder(lo, hi, step)
}

// levels materializes the ladder as ascending float prices.
func (l ladder) levels() []float64 {
	var out []float64
	for m := l.min; m < l.max; m += l.step {
		out = append(out, m.price())
	}
	return out
}

func (l ladder) size() int {
	if l.max <= l.min {
		return 0
	}
	return int((l.max - l.min + l.step - 1) / l.step)
}

// Levels exposes the discrete price ladder for a bar sequence, primarily for
// presentation callers.
func Levels(bars []models.Bar, granularity float64) ([]float64, error) {
	step, err := stepFor(granularity)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}
	return ladderOver(bars, step).levels(), nil
}
