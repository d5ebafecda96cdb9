package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/session"
	"github.com/light-bringer/procat-browse/internal/pkg/logger"
	"github.com/light-bringer/procat-browse/internal/pkg/metrics"
)

// healthTimeout bounds the store ping of the health check.
const healthTimeout = 2 * time.Second

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Registry           *session.Registry
	Store              contracts.ReadModel
	Logger             *zap.Logger
	SessionIdleTimeout time.Duration
	// Metrics and Gatherer are optional; /metrics is served when Gatherer is set.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter builds the echo instance serving the catalog API.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(logger.RequestID())
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics.Middleware())
	}
	e.Use(logger.Middleware(cfg.Logger))

	e.GET("/health", healthHandler(cfg.Store))
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(cfg.Gatherer)))
	}

	catalog := NewCatalogHandler(cfg.Registry, cfg.SessionIdleTimeout)
	catalog.Register(e.Group("/api/v1/catalog"))

	return e
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func healthHandler(store contracts.ReadModel) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.FromEcho(c).Warn("health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		}
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	}
}
