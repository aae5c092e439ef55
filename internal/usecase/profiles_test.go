package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BarScope/internal/domain/models"
	"BarScope/internal/profile"
	svccache "BarScope/internal/service/cache"
)

type fakeReader struct {
	bars []models.Bar
	err  error
}

func (f *fakeReader) SessionBars(_ context.Context, symbol string, _ time.Time) ([]models.Bar, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Bar, len(f.bars))
	copy(out, f.bars)
	for i := range out {
		out[i].Symbol = symbol
	}
	return out, nil
}

func (f *fakeReader) Bars(_ context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Bar
	for _, b := range f.bars {
		if !b.Timestamp.Before(from) && b.Timestamp.Before(to) {
			b.Symbol = symbol
			out = append(out, b)
		}
	}
	return out, nil
}

func sessionBar(ts time.Time, low, high, volume float64) models.Bar {
	return models.Bar{
		Symbol:    "ES",
		Timestamp: ts,
		Open:      low,
		High:      high,
		Low:       low,
		Close:     high,
		Volume:    volume,
	}
}

func fiveBarSession() []models.Bar {
	base := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	spans := [][2]float64{
		{10.00, 10.02},
		{10.01, 10.03},
		{9.99, 10.01},
		{10.00, 10.02},
		{10.01, 10.03},
	}
	bars := make([]models.Bar, len(spans))
	for i, s := range spans {
		bars[i] = sessionBar(base.Add(time.Duration(i)*time.Minute), s[0], s[1], 100)
	}
	return bars
}

func TestGetProfileComputesAndCaches(t *testing.T) {
	reader := &fakeReader{bars: fiveBarSession()}
	uc := NewProfilesUseCase(reader, svccache.NewTTLCache(), nil)

	params := GetProfileParams{
		Symbol:      "ES",
		Date:        "2024-03-05",
		Granularity: 0.01,
		Mode:        profile.ModeCount,
	}
	res, err := uc.GetProfile(context.Background(), params)
	require.NoError(t, err)
	assert.InDelta(t, 10.01, res.PoC, 1e-9)
	assert.GreaterOrEqual(t, res.VAH, res.PoC)
	assert.LessOrEqual(t, res.VAL, res.PoC)
	require.NotNil(t, res.Structure)

	// A finished session is served from cache even if the store goes away.
	reader.err = errors.New("store down")
	cached, err := uc.GetProfile(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, res.PoC, cached.PoC)
	assert.Equal(t, len(res.Levels), len(cached.Levels))
}

func TestGetProfileErrors(t *testing.T) {
	uc := NewProfilesUseCase(&fakeReader{}, svccache.NewTTLCache(), nil)

	_, err := uc.GetProfile(context.Background(), GetProfileParams{
		Symbol: "ES", Date: "not-a-date", Granularity: 0.01, Mode: profile.ModeCount,
	})
	assert.Error(t, err)

	// No bars stored for the day.
	_, err = uc.GetProfile(context.Background(), GetProfileParams{
		Symbol: "ES", Date: "2024-03-05", Granularity: 0.01, Mode: profile.ModeCount,
	})
	assert.ErrorIs(t, err, profile.ErrEmptySeries)

	_, err = uc.GetProfile(context.Background(), GetProfileParams{
		Symbol: "ES", Date: "2024-03-05", Granularity: 0.013, Mode: profile.ModeCount,
	})
	assert.Error(t, err)
}

func TestGetTPO(t *testing.T) {
	reader := &fakeReader{bars: fiveBarSession()}
	uc := NewProfilesUseCase(reader, svccache.NewTTLCache(), nil)

	res, err := uc.GetTPO(context.Background(), GetTPOParams{
		Symbol: "ES", Date: "2024-03-05", Granularity: 0.01,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Levels)
	// Descending price order.
	for i := 1; i < len(res.Levels); i++ {
		assert.Greater(t, res.Levels[i-1].Price, res.Levels[i].Price)
	}
}

func TestGetRegimeOverWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var bars []models.Bar
	for d := 0; d < 3; d++ {
		day := time.Date(2024, 3, 4+d, 0, 0, 0, 0, time.UTC)
		level := 100.0
		for i := 0; i < 60; i++ {
			level += rng.NormFloat64()
			bars = append(bars, sessionBar(day.Add(time.Duration(i)*time.Minute), level, level, 10))
		}
	}
	uc := NewRegimeUseCase(&fakeReader{bars: bars}, nil)

	res, err := uc.GetRegime(context.Background(), GetRegimeParams{
		Symbol: "ES", From: "2024-03-04", To: "2024-03-06", MaxLag: 10,
	})
	require.NoError(t, err)
	// First day is dropped as possibly partial.
	assert.Len(t, res.Records, 2)

	_, err = uc.GetRegime(context.Background(), GetRegimeParams{
		Symbol: "ES", From: "2024-03-06", To: "2024-03-04", MaxLag: 10,
	})
	assert.Error(t, err)
}

func TestGetVolatility(t *testing.T) {
	var bars []models.Bar
	now := time.Now().UTC()
	for d := 1; d <= 5; d++ {
		day := now.AddDate(0, 0, -d)
		bars = append(bars, sessionBar(day, 100, 100+float64(d), 10))
	}
	uc := NewVolatilityUseCase(&fakeReader{bars: bars}, nil)

	res, err := uc.GetVolatility(context.Background(), GetVolatilityParams{Symbol: "ES", Sessions: 240})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Sessions)
	require.NotNil(t, res.Latest)
	assert.InDelta(t, 1.0, res.Latest.Range, 1e-9)
	assert.NotEmpty(t, res.Summaries)

	// Anchoring in the past hides the newer sessions.
	res, err = uc.GetVolatility(context.Background(), GetVolatilityParams{
		Symbol: "ES", Sessions: 240, AsOf: now.AddDate(0, 0, -3),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sessions)
	assert.InDelta(t, 4.0, res.Latest.Range, 1e-9)
}
