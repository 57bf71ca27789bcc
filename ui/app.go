// Package ui exposes the engine over a JSON HTTP API. It is a thin surface:
// every computation happens in the app service and below.
package ui

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quotelens/app"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.QuoteService
}

// NewApp creates the HTTP application over a quote service.
func NewApp(service *app.QuoteService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/datasets", a.handleUpload)
		r.Get("/summary", a.handleSummary)
		r.Get("/report", a.handleReport)
		r.Post("/recommend", a.handleRecommend)
		r.Post("/predict", a.handlePredict)
		r.Post("/predict/batch", a.handleBatchPredict)
		r.Get("/export", a.handleExport)
		r.Get("/template", a.handleTemplate)
	})
}

// Router returns the configured handler, for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given port and shuts down cleanly on
// SIGINT or SIGTERM.
func (a *App) Start(port string) error {
	srv := &http.Server{Addr: ":" + port, Handler: a.router}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[UI] Starting server on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[UI] Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
