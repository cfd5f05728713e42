package ui

import (
	"context"
	stderrors "errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aryastastic/app"
	"aryastastic/internal"
	"aryastastic/internal/config"
	"aryastastic/ports"
)

// App is the HTTP front end of the calculation service
type App struct {
	router    *chi.Mux
	service   *app.CalculationService
	exporter  ports.SweepExporter
	scenarios ports.ScenarioReaderPort
	templates *template.Template
	config    config.ServerConfig
	logger    *internal.Logger
}

// NewApp creates the HTTP application. A nil logger logs nowhere.
func NewApp(service *app.CalculationService, exporter ports.SweepExporter, scenarios ports.ScenarioReaderPort, cfg config.ServerConfig, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		exporter:  exporter,
		scenarios: scenarios,
		templates: templates,
		config:    cfg,
		logger:    logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(requestLogger(a.logger))
	a.router.Use(middleware.Recoverer)
	if a.config.RequestTimeout > 0 {
		a.router.Use(middleware.Timeout(a.config.RequestTimeout))
	}
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/designs", a.handleDesigns)
		r.Post("/calculate/{design}", a.handleCalculate)
		r.Post("/sweep/{design}", a.handleSweep)
		r.Post("/batch", a.handleBatch)
	})

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "", "no route for "+r.URL.Path)
	})
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", a.config.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
