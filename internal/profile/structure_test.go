package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tpoWith(counts []int) TPOProfile {
	prof := make(TPOProfile, len(counts))
	labels := Letters(26)
	for i, n := range counts {
		prof[i] = TPOLevel{Price: 11.00 - float64(i)*0.01, Letters: labels[:n]}
	}
	return prof
}

func TestStructureLetterProfile(t *testing.T) {
	tests := []struct {
		name   string
		counts []int // letters per level, descending price
		high   string
		low    string
	}{
		{"single prints at both extremes", []int{1, 1, 5, 1, 1}, StructureStrong, StructureStrong},
		{"fat low pair", []int{1, 1, 5, 1, 2}, StructureStrong, StructurePoorWeak},
		{"fat high pair", []int{2, 1, 5, 1, 1}, StructurePoorWeak, StructureStrong},
		{"both extremes fat", []int{3, 2, 5, 2, 3}, StructurePoorWeak, StructurePoorWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tpoWith(tt.counts).Structure(DefaultStructureThreshold)
			require.NoError(t, err)
			assert.Equal(t, tt.high, s.High)
			assert.Equal(t, tt.low, s.Low)
		})
	}
}

func TestStructureAggregateTruncatesMass(t *testing.T) {
	prof := AggregateProfile{
		{Price: 10.03, Mass: 1.9},
		{Price: 10.02, Mass: 1.0},
		{Price: 10.01, Mass: 8.0},
		{Price: 10.00, Mass: 1.4},
		{Price: 9.99, Mass: 1.2},
	}
	s, err := prof.Structure(DefaultStructureThreshold)
	require.NoError(t, err)
	// 1.9 truncates to 1: the high pair sums to 2, not 3.
	assert.Equal(t, StructureStrong, s.High)
	assert.Equal(t, StructureStrong, s.Low)
}

func TestStructureInsufficientLevels(t *testing.T) {
	_, err := AggregateProfile{{Price: 10, Mass: 3}}.Structure(DefaultStructureThreshold)
	assert.ErrorIs(t, err, ErrInsufficientLevels)

	_, err = TPOProfile{}.Structure(DefaultStructureThreshold)
	assert.ErrorIs(t, err, ErrInsufficientLevels)
}
