package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	drepo "BarScope/internal/domain/repository"
	"BarScope/internal/profile"
	svccache "BarScope/internal/service/cache"
)

// ProfilesUseCase computes session market profiles over stored bars, with a
// byte-cache in front since a finished session never changes.
type ProfilesUseCase struct {
	reader  drepo.BarReader
	cache   svccache.BytesCache
	ttl     time.Duration
	metrics drepo.Metrics
}

func NewProfilesUseCase(reader drepo.BarReader, cache svccache.BytesCache, metrics drepo.Metrics) *ProfilesUseCase {
	return &ProfilesUseCase{reader: reader, cache: cache, ttl: 15 * time.Minute, metrics: metrics}
}

type GetProfileParams struct {
	Symbol      string
	Date        string // 2006-01-02
	Granularity float64
	Mode        profile.Mode
}

type ProfileResult struct {
	Symbol      string             `json:"symbol"`
	Date        string             `json:"date"`
	Granularity float64            `json:"granularity"`
	Mode        profile.Mode       `json:"mode"`
	Levels      []profile.Level    `json:"levels"`
	PoC         float64            `json:"poc"`
	VAH         float64            `json:"vah"`
	VAL         float64            `json:"val"`
	TotalMass   float64            `json:"total_mass"`
	Structure   *profile.Structure `json:"structure,omitempty"`
}

type GetTPOParams struct {
	Symbol      string
	Date        string
	Granularity float64
}

type TPOResult struct {
	Symbol      string             `json:"symbol"`
	Date        string             `json:"date"`
	Granularity float64            `json:"granularity"`
	Levels      []profile.TPOLevel `json:"levels"`
	Structure   *profile.Structure `json:"structure,omitempty"`
}

// GetProfile builds the aggregate volume or count profile of one session,
// including value area bounds and the price-structure verdict.
func (uc *ProfilesUseCase) GetProfile(ctx context.Context, p GetProfileParams) (*ProfileResult, error) {
	day, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return nil, fmt.Errorf("bad date: %w", err)
	}

	key := fmt.Sprintf("profile:%s:%s:%g:%s", p.Symbol, p.Date, p.Granularity, p.Mode)
	var cached ProfileResult
	if uc.fromCache(key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	bars, err := uc.reader.SessionBars(ctx, p.Symbol, day)
	if err != nil {
		return nil, fmt.Errorf("load session bars: %w", err)
	}

	agg, err := profile.BuildAggregate(bars, p.Granularity, p.Mode)
	if err != nil {
		return nil, err
	}
	va, err := agg.ValueArea(profile.DefaultValueAreaFraction)
	if err != nil {
		return nil, err
	}

	res := &ProfileResult{
		Symbol:      p.Symbol,
		Date:        p.Date,
		Granularity: p.Granularity,
		Mode:        p.Mode,
		Levels:      agg,
		PoC:         va.PoC,
		VAH:         va.VAH,
		VAL:         va.VAL,
		TotalMass:   agg.TotalMass(),
	}
	res.Structure = structureOrNil(agg.Structure(profile.DefaultStructureThreshold))

	if uc.metrics != nil {
		uc.metrics.RecordLatency("profile_build", time.Since(start).Seconds())
	}
	uc.toCache(key, res)
	return res, nil
}

// GetTPO builds the letter-based profile of one session.
func (uc *ProfilesUseCase) GetTPO(ctx context.Context, p GetTPOParams) (*TPOResult, error) {
	day, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return nil, fmt.Errorf("bad date: %w", err)
	}

	key := fmt.Sprintf("tpo:%s:%s:%g", p.Symbol, p.Date, p.Granularity)
	var cached TPOResult
	if uc.fromCache(key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	bars, err := uc.reader.SessionBars(ctx, p.Symbol, day)
	if err != nil {
		return nil, fmt.Errorf("load session bars: %w", err)
	}

	tpo, err := profile.BuildTPO(bars, p.Granularity)
	if err != nil {
		return nil, err
	}

	res := &TPOResult{
		Symbol:      p.Symbol,
		Date:        p.Date,
		Granularity: p.Granularity,
		Levels:      tpo,
	}
	res.Structure = structureOrNil(tpo.Structure(profile.DefaultStructureThreshold))

	if uc.metrics != nil {
		uc.metrics.RecordLatency("tpo_build", time.Since(start).Seconds())
	}
	uc.toCache(key, res)
	return res, nil
}

// structureOrNil drops the verdict when the ladder is too shallow to
// classify; the profile itself is still worth returning.
func structureOrNil(s profile.Structure, err error) *profile.Structure {
	if err != nil {
		return nil
	}
	return &s
}

func (uc *ProfilesUseCase) fromCache(key string, dest interface{}) bool {
	if uc.cache == nil {
		return false
	}
	b, ok, err := uc.cache.GetBytes(key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

func (uc *ProfilesUseCase) toCache(key string, v interface{}) {
	if uc.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = uc.cache.SetBytes(key, b, uc.ttl)
}
