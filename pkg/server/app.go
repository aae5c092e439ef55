package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"BarScope/internal/handler/api"
	mid "BarScope/internal/middleware"
	internalrepo "BarScope/internal/repository"
	icache "BarScope/internal/service/cache"
	"BarScope/internal/service/ratelimit"
	"BarScope/internal/usecase"
	pkgch "BarScope/pkg/clickhouse"
	"BarScope/pkg/config"
	xhttp "BarScope/pkg/http"
	pkgkafka "BarScope/pkg/kafka"
	applogger "BarScope/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.BarCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	barStore    *internalrepo.ClickHouseBarStore
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	BarProc     *usecase.BarProcessor
	LogShipper  applogger.Publisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	barStore *internalrepo.ClickHouseBarStore,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		barStore:  barStore,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if a.LogShipper != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "barscope.logs",
			Publisher:      a.LogShipper,
		})
		defer l.RemoveCollector()
	}

	// Setup Echo HTTP server using pkg/http and register routes via handler
	httpHandler := a.httpHandler
	if httpHandler == nil && a.barStore != nil {
		a.barStore.SetLogger(l)

		var bytesCache icache.BytesCache
		if a.cfg.Cache.Redis.Enabled {
			bytesCache = icache.NewRedisCache(icache.RedisConfig{
				Addr:     a.cfg.Cache.Redis.Addr,
				Password: a.cfg.Cache.Redis.Password,
				DB:       a.cfg.Cache.Redis.DB,
			})
		} else {
			bytesCache = icache.NewTTLCache()
		}

		profiles := usecase.NewProfilesUseCase(a.barStore, bytesCache, nil)
		regimes := usecase.NewRegimeUseCase(a.barStore, nil)
		vol := usecase.NewVolatilityUseCase(a.barStore, nil)
		httpHandler = api.NewProfilesEchoHandler(l, profiles, regimes, vol)
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.cfg.RateLimit.Enabled {
		a.httpServer.Echo().Use(mid.RateLimit(ratelimit.New(), a.cfg.RateLimit.Capacity, a.cfg.RateLimit.RefillPerSec))
	}
	a.registerHealth()

	// Start collector when the live stream is configured
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// registerHealth wires the liveness endpoint over infra dependencies.
func (a *App) registerHealth() {
	a.httpServer.Echo().GET("/health", func(c echo.Context) error {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if a.chClient != nil {
			if err := a.chClient.Health(c.Request().Context()); err != nil {
				status["clickhouse"] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		if a.collector != nil && !a.collector.IsConnected() {
			status["stream"] = "disconnected"
		}
		return c.JSON(code, status)
	})
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close bar processor resources (publisher/storage)
	if a.BarProc != nil {
		a.BarProc.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
