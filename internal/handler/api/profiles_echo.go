package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "BarScope/internal/domain/models"
	"BarScope/internal/profile"
	svcmetrics "BarScope/internal/service/metrics"
	"BarScope/internal/usecase"
	xhttp "BarScope/pkg/http"
	xlogger "BarScope/pkg/logger"
)

// ProfilesEchoHandler exposes the session analytics endpoints.
type ProfilesEchoHandler struct {
	logger     *xlogger.Logger
	profiles   *usecase.ProfilesUseCase
	regimes    *usecase.RegimeUseCase
	volatility *usecase.VolatilityUseCase
}

func NewProfilesEchoHandler(
	logger *xlogger.Logger,
	profiles *usecase.ProfilesUseCase,
	regimes *usecase.RegimeUseCase,
	volatility *usecase.VolatilityUseCase,
) *ProfilesEchoHandler {
	return &ProfilesEchoHandler{
		logger:     logger,
		profiles:   profiles,
		regimes:    regimes,
		volatility: volatility,
	}
}

func (h *ProfilesEchoHandler) RegisterRoutes(e *echo.Echo) {
	svcmetrics.Register()
	g := e.Group("/api")
	g.GET("/profile", h.Profile)
	g.GET("/tpo", h.TPO)
	g.GET("/regime", h.Regime)
	g.GET("/volatility", h.Volatility)
}

// observe records per-endpoint latency and the error outcome.
func observe(endpoint string, start time.Time, err error) {
	svcmetrics.ProfileLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		svcmetrics.ProfileErrors.WithLabelValues(endpoint).Inc()
	}
}

func (h *ProfilesEchoHandler) Profile(c echo.Context) error {
	req := &models.ProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	mode, ok := profile.ParseMode(req.Mode)
	if !ok {
		return xhttp.BadRequestResponse(c, xhttp.BadRequestErrorf("unknown mode: %s", req.Mode))
	}

	start := time.Now()
	res, err := h.profiles.GetProfile(c.Request().Context(), usecase.GetProfileParams{
		Symbol:      req.Symbol,
		Date:        req.Date,
		Granularity: req.Granularity,
		Mode:        mode,
	})
	observe("profile", start, err)
	if err != nil {
		return h.profileError(c, "profile usecase error", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *ProfilesEchoHandler) TPO(c echo.Context) error {
	req := &models.TPORequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.profiles.GetTPO(c.Request().Context(), usecase.GetTPOParams{
		Symbol:      req.Symbol,
		Date:        req.Date,
		Granularity: req.Granularity,
	})
	observe("tpo", start, err)
	if err != nil {
		return h.profileError(c, "tpo usecase error", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *ProfilesEchoHandler) Regime(c echo.Context) error {
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.regimes.GetRegime(c.Request().Context(), usecase.GetRegimeParams{
		Symbol: req.Symbol,
		From:   req.From,
		To:     req.To,
		MaxLag: req.MaxLag,
	})
	observe("regime", start, err)
	if err != nil {
		h.logger.Error("regime usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ProfilesEchoHandler) Volatility(c echo.Context) error {
	req := &models.VolatilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.volatility.GetVolatility(c.Request().Context(), usecase.GetVolatilityParams{
		Symbol:   req.Symbol,
		Sessions: req.Sessions,
		AsOf:     xhttp.ParseTimeDefault(req.AsOf, time.Time{}),
	})
	observe("volatility", start, err)
	if err != nil {
		h.logger.Error("volatility usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// profileError maps the profile sentinel errors onto HTTP statuses.
func (h *ProfilesEchoHandler) profileError(c echo.Context, msg string, err error) error {
	switch {
	case errors.Is(err, profile.ErrEmptySeries):
		return xhttp.NotFoundResponse(c, xhttp.NotFoundError("no bars for that session"))
	case errors.Is(err, profile.ErrInvalidGranularity):
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, profile.ErrSchemaMismatch):
		h.logger.Error(msg, xlogger.Error(err))
		return xhttp.DataResponse(c, http.StatusUnprocessableEntity, xhttp.NewAppError("ERR_SCHEMA", "", err.Error(), http.StatusUnprocessableEntity))
	default:
		h.logger.Error(msg, xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
