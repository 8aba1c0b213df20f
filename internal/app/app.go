// Package app wires the examtex HTTP service from a Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/examtex/internal/api"
	"github.com/dgallion1/examtex/internal/assist"
	"github.com/dgallion1/examtex/internal/config"
	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/metrics"
	"github.com/dgallion1/examtex/internal/pipeline"
	"github.com/dgallion1/examtex/internal/question"
	"github.com/dgallion1/examtex/internal/typeset"
)

// App is a configured, not yet running, service.
type App struct {
	cfg     config.Config
	log     *slog.Logger
	orch    *pipeline.Orchestrator
	handler http.Handler
	closers []func()
}

// NewRenderer builds the renderer selected by cfg.
func NewRenderer(cfg config.Config) (*markup.Renderer, error) {
	ts, err := typeset.ForName(cfg.Typesetter)
	if err != nil {
		return nil, err
	}
	r := markup.NewRenderer(ts)
	r.Bullet = cfg.Bullet
	return r, nil
}

// New builds every component. Questions live in memory unless StoreURL is
// set; content assist is enabled only with an Anthropic API key.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	renderer, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}
	m := metrics.New()

	var store question.Store
	if cfg.StoreURL != "" {
		rs := question.NewRemoteStore(cfg.StoreURL, cfg.StoreAPIKey, "")
		a.closers = append(a.closers, rs.Close)
		store = rs
		log.Info("using remote question store", "url", cfg.StoreURL)
	} else {
		store = question.NewMemoryStore()
		log.Warn("STORE_URL not set, questions are kept in memory")
	}

	var assistClient *assist.Client
	if cfg.AnthropicAPIKey != "" {
		assistClient = assist.NewClient(assist.Options{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			Metrics: m,
			Log:     log.With("component", "assist"),
		})
		a.closers = append(a.closers, assistClient.Close)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, content assist disabled")
	}

	a.orch = pipeline.NewOrchestrator(cfg, store, renderer, m, log.With("component", "pipeline"))
	a.handler = api.NewServer(api.Deps{
		Orchestrator: a.orch,
		Store:        store,
		Renderer:     renderer,
		Assist:       assistClient,
		Metrics:      m,
	}, log, cfg)
	return a, nil
}

// Serve runs the HTTP server and import workers until ctx is cancelled,
// then shuts both down gracefully.
func (a *App) Serve(ctx context.Context) error {
	a.orch.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting examtex", "port", a.cfg.Port, "typesetter", a.cfg.Typesetter)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.shutdown()
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	a.orch.Stop()
	for _, c := range a.closers {
		c()
	}
}
