// Package runtime wires configuration, history and the picker service into a
// running HTTP server.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/R3E-Network/lotto_picker/internal/config"
	"github.com/R3E-Network/lotto_picker/internal/history"
	"github.com/R3E-Network/lotto_picker/internal/middleware"
	"github.com/R3E-Network/lotto_picker/pkg/logger"
	"github.com/R3E-Network/lotto_picker/services/picker"
)

const (
	shutdownTimeout        = 10 * time.Second
	rateLimitCleanupPeriod = 5 * time.Minute
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	httpServer *http.Server
	picker     *picker.Service
	history    io.Closer
	limiter    *middleware.RateLimiter
	stopBg     context.CancelFunc
}

// NewApplication loads configuration and constructs the application.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewFromConfig(ctx, cfg, logger.New(cfg.Logging).Named("server"))
}

// NewFromConfig constructs the application from an already loaded config.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("server")
	}

	store, closer, err := history.New(ctx, cfg.History)
	if err != nil {
		return nil, fmt.Errorf("configure history: %w", err)
	}

	svc, err := picker.New(picker.Config{
		Store:          store,
		Logger:         log.Named(picker.ServiceID),
		Defaults:       cfg.Defaults,
		ReloadSchedule: cfg.Reload.Schedule,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}

	a := &Application{
		cfg:     cfg,
		log:     log,
		picker:  svc,
		history: closer,
		limiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log),
	}
	a.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.buildHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return a, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *Application) buildHandler() http.Handler {
	router := a.picker.Router()
	router.Use(
		middleware.LoggingMiddleware(a.log),
		middleware.MetricsMiddleware("/metrics"),
		a.limiter.Handler,
	)

	var h http.Handler = router
	if len(a.cfg.Server.AllowedOrigins) > 0 {
		// Outside the router so preflight requests reach it without a route.
		h = middleware.CORSMiddleware(a.cfg.Server.AllowedOrigins)(h)
	}
	return h
}

// Picker exposes the picker service.
func (a *Application) Picker() *picker.Service {
	return a.picker
}

// Run loads history, starts the HTTP server and blocks until the context is
// cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.picker.Start(ctx); err != nil {
		return fmt.Errorf("start picker: %w", err)
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	a.stopBg = cancel
	a.limiter.StartCleanup(bgCtx, rateLimitCleanupPeriod)

	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", ln.Addr().String()).Info("HTTP server listening")
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully shuts down the HTTP server and releases the history store.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if a.stopBg != nil {
		a.stopBg()
	}
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := a.picker.Stop(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("error stopping picker service")
	}
	if err := a.history.Close(); err != nil {
		a.log.WithError(err).Warn("error closing history store")
	}
	return nil
}
