package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ictuniversity/erp-dashboard/docs"
	"github.com/ictuniversity/erp-dashboard/internal/api/handler"
	"github.com/ictuniversity/erp-dashboard/internal/api/middleware"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from. Revoker may be nil when
// no revocation store is configured.
type Deps struct {
	Service      ports.DashboardService
	Revoker      ports.SessionRevoker
	RevokeTTL    time.Duration
	Dependencies []handler.Dependency
	JWTSecret    string
	Log          zerolog.Logger
	// Registerer receives the HTTP request metrics; the default registry when nil.
	Registerer   prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "dashboard_http",
		Registerer: reg,
	}))

	// --- Dependencies ---
	dashboardHandler := handler.NewDashboardHandler(d.Service, d.Revoker, d.RevokeTTL)
	sessionHandler := handler.NewSessionHandler(d.Service)
	authMiddleware := middleware.Auth(d.JWTSecret, d.Revoker)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Dependencies...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dashboard routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/dashboard", dashboardHandler.Get)
	v1.POST("/dashboard/refresh", dashboardHandler.Refresh)
	v1.DELETE("/dashboard/session", dashboardHandler.SignOut)

	admin := v1.Group("/admin", middleware.RBAC(domain.RoleSystemAdmin))
	admin.GET("/sessions", sessionHandler.List)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
