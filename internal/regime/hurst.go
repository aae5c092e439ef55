package regime

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Label classifies one trading day by its Hurst exponent.
type Label string

const (
	MeanReverting Label = "mean_reverting"
	RandomWalk    Label = "random_walk"
	Trending      Label = "trending"
)

// Config carries the classifier constants. The defaults match the usual
// rescaled-range bands; tests probe boundaries by overriding them.
type Config struct {
	MaxLag    int     // minimum series length and lag cap
	LowerBand float64 // below this: mean-reverting
	UpperBand float64 // above this: trending
}

// DefaultConfig returns the stock classifier configuration.
func DefaultConfig() Config {
	return Config{MaxLag: 100, LowerBand: 0.49, UpperBand: 0.51}
}

func (c Config) normalized() Config {
	if c.MaxLag <= 0 {
		c.MaxLag = 100
	}
	if c.LowerBand <= 0 || c.UpperBand <= 0 || c.LowerBand > c.UpperBand {
		c.LowerBand, c.UpperBand = 0.49, 0.51
	}
	return c
}

// tauFloor replaces a zero lagged-difference deviation so the log stays
// defined.
const tauFloor = 1e-8

// Exponent computes the rescaled-range Hurst exponent of a closing-price
// series. A series shorter than maxLag is not computable and yields
// ok=false; the caller skips the day rather than failing the batch.
//
// For each lag in [2, min(maxLag, len)) the population standard deviation of
// the lagged differences is taken; the exponent is the slope of the
// degree-1 fit of log tau against log lag.
func Exponent(series []float64, maxLag int) (float64, bool) {
	if maxLag <= 0 {
		maxLag = DefaultConfig().MaxLag
	}
	if len(series) < maxLag {
		return 0, false
	}

	top := maxLag
	if len(series) < top {
		top = len(series)
	}
	logLags := make([]float64, 0, top-2)
	logTaus := make([]float64, 0, top-2)
	diff := make([]float64, 0, len(series))

	for lag := 2; lag < top; lag++ {
		diff = diff[:0]
		for i := 0; i+lag < len(series); i++ {
			diff = append(diff, series[i+lag]-series[i])
		}
		tau := stat.PopStdDev(diff, nil)
		if tau == 0 {
			tau = tauFloor
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logTaus = append(logTaus, math.Log(tau))
	}
	if len(logLags) < 2 {
		return 0, false
	}

	_, slope := stat.LinearRegression(logLags, logTaus, nil, false)
	return slope, true
}

// Classify maps a Hurst exponent onto a regime label. The random-walk band
// is closed on both ends.
func (c Config) Classify(hurst float64) Label {
	c = c.normalized()
	switch {
	case hurst < c.LowerBand:
		return MeanReverting
	case hurst <= c.UpperBand:
		return RandomWalk
	default:
		return Trending
	}
}
