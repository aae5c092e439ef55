package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTPOMarksSpannedLevels(t *testing.T) {
	bars := sessionBars([][2]float64{
		{10.00, 10.02},
		{10.01, 10.03},
	}, 0)

	prof, err := BuildTPO(bars, 0.01)
	require.NoError(t, err)

	byPrice := map[float64][]string{}
	for i, lv := range prof {
		byPrice[lv.Price] = lv.Letters
		if i > 0 && lv.Price >= prof[i-1].Price {
			t.Fatalf("profile not in descending-price order at %d", i)
		}
	}

	// Bar A spans 10.00..10.03 (high + granularity), bar B 10.01..10.04.
	assert.Equal(t, []string{"A"}, byPrice[10.00])
	assert.Equal(t, []string{"A", "B"}, byPrice[10.01])
	assert.Equal(t, []string{"A", "B"}, byPrice[10.02])
}

func TestBuildTPOAnyPositiveGranularity(t *testing.T) {
	// The letter profile is not restricted to the aggregate granularity set.
	bars := sessionBars([][2]float64{{10.000, 10.012}}, 0)
	prof, err := BuildTPO(bars, 0.003)
	require.NoError(t, err)
	require.NotEmpty(t, prof)
	for _, lv := range prof {
		assert.Equal(t, []string{"A"}, lv.Letters)
	}
}

func TestBuildTPOErrors(t *testing.T) {
	_, err := BuildTPO(nil, 0.01)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = BuildTPO(sessionBars([][2]float64{{10, 10.01}}, 0), -1)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}
