package api

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aargeom/internal"
	"aargeom/internal/batch"
	"aargeom/internal/compliance"
	"aargeom/internal/engine"
	"aargeom/internal/report"
	"aargeom/ports"
)

// App is the HTTP application exposing the AAR processor.
type App struct {
	router     *chi.Mux
	engine     *engine.Engine
	generator  *report.Generator
	checker    *compliance.Checker
	batch      *batch.Validator
	repo       ports.AARRepository
	monitoring ports.Monitoring
	logger     *internal.Logger
	stats      appStats
}

// appStats tracks the request counters GET /metrics snapshots.
type appStats struct {
	requests      atomic.Int64
	validations   atomic.Int64
	aarsGenerated atomic.Int64
}

// Config holds HTTP application dependencies. Repo and Monitoring may
// be nil; the corresponding endpoints then degrade rather than fail.
type Config struct {
	Engine     *engine.Engine
	Repo       ports.AARRepository
	Monitoring ports.Monitoring
}

// NewApp creates the HTTP application and wires its routes.
func NewApp(config Config) *App {
	app := &App{
		router:     chi.NewRouter(),
		engine:     config.Engine,
		generator:  report.NewGenerator(config.Engine),
		checker:    compliance.NewChecker(config.Engine),
		batch:      batch.NewValidator(config.Engine, 0),
		repo:       config.Repo,
		monitoring: config.Monitoring,
		logger:     internal.DefaultLogger,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(requestID)
	a.router.Use(a.countRequests)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Get("/metrics", a.handleMetrics)

	// Validation endpoints
	a.router.Post("/validate", a.handleValidate)
	a.router.Post("/validate/batch", a.handleValidateBatch)
	a.router.Post("/validate/mission", a.handleValidateMission)

	// AAR lifecycle
	a.router.Post("/aar/generate", a.handleGenerateAAR)
	a.router.Get("/aar/{id}/status", a.handleAARStatus)
	a.router.Get("/aar/{id}/report", a.handleAARReport)
	a.router.Get("/aars", a.handleListAARs)

	// Compliance endpoints
	a.router.Get("/compliance", a.handleCompliance)
	a.router.Get("/compliance/report", a.handleComplianceReport)
	a.router.Get("/compliance/alerts", a.handleComplianceAlerts)

	// Pattern history
	a.router.Get("/patterns/{pattern}/trends", a.handlePatternTrends)
}

// countRequests counts every request served.
func (a *App) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.stats.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}
