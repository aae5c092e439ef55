package profile

import "math"

// Structure labels for the session extremes.
const (
	StructureStrong   = "strong"
	StructurePoorWeak = "poor/weak"
)

// DefaultStructureThreshold is the combined-mass cutoff above which an
// extreme is labeled poor/weak.
const DefaultStructureThreshold = 2

// Structure labels the session's high and low as strong or poor/weak.
type Structure struct {
	High string `json:"high"`
	Low  string `json:"low"`
}

// Structure inspects the two highest-price and two lowest-price buckets of
// an aggregate profile. If a pair's combined mass (truncated to an integer)
// exceeds the threshold the extreme is poor/weak, otherwise strong.
func (p AggregateProfile) Structure(threshold int) (Structure, error) {
	if len(p) < 2 {
		return Structure{}, ErrInsufficientLevels
	}
	high := int(math.Trunc(p[0].Mass)) + int(math.Trunc(p[1].Mass))
	low := int(math.Trunc(p[len(p)-1].Mass)) + int(math.Trunc(p[len(p)-2].Mass))
	return classifyPair(high, low, threshold), nil
}

// Structure applies the same rule to a letter profile, counting letters per
// bucket.
func (p TPOProfile) Structure(threshold int) (Structure, error) {
	if len(p) < 2 {
		return Structure{}, ErrInsufficientLevels
	}
	high := len(p[0].Letters) + len(p[1].Letters)
	low := len(p[len(p)-1].Letters) + len(p[len(p)-2].Letters)
	return classifyPair(high, low, threshold), nil
}

func classifyPair(high, low, threshold int) Structure {
	if threshold <= 0 {
		threshold = DefaultStructureThreshold
	}
	s := Structure{High: StructureStrong, Low: StructureStrong}
	if high > threshold {
		s.High = StructurePoorWeak
	}
	if low > threshold {
		s.Low = StructurePoorWeak
	}
	return s
}
