// Package bootstrap wires configuration, destinations, the dispatcher and the
// HTTP server into a runnable relay daemon.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lechuhuuha/log_relay/config"
	httpapi "github.com/lechuhuuha/log_relay/internal/http"
	"github.com/lechuhuuha/log_relay/internal/tailer"
	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/pipeline"
	"github.com/lechuhuuha/log_relay/relay"
)

const shutdownTimeout = 10 * time.Second

// AppConfig holds the runtime options required to start the daemon.
type AppConfig struct {
	ConfigPath string
	// Addr and Service override the config file when non-empty.
	Addr    string
	Service string
}

// App owns the daemon's wiring for one run.
type App struct {
	cfg    *config.Config
	logger loggerpkg.Logger
}

// BuildApp loads and validates the configuration file and returns a
// ready-to-run App. Configuration problems surface here, before any slot or
// destination exists.
func BuildApp(appCfg AppConfig, logger loggerpkg.Logger) (*App, error) {
	if logger == nil {
		logger = loggerpkg.NewNop()
	}
	if strings.TrimSpace(appCfg.ConfigPath) == "" {
		return nil, errors.New("config file path is required")
	}
	fileCfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if appCfg.Addr != "" {
		fileCfg.Server.Addr = appCfg.Addr
	}
	if appCfg.Service != "" {
		fileCfg.Service = appCfg.Service
	}
	return &App{cfg: fileCfg, logger: logger}, nil
}

// Run starts the relay and blocks until the context is canceled, then drains
// every slot before tearing the pipeline down.
func (a *App) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sinks, closeSinks, err := a.cfg.BuildSinks(ctx)
	if err != nil {
		return fmt.Errorf("build destinations: %w", err)
	}
	defer closeSinks()

	dispatcher := pipeline.NewDispatcher(sinks, a.logger)
	facade := relay.New(dispatcher, a.cfg.Service)

	var tl *tailer.Tailer
	if a.cfg.Tail.Path != "" {
		tl = tailer.New(a.cfg.Tail.Path, facade, a.logger)
		if err := tl.Start(ctx); err != nil {
			return fmt.Errorf("start tailer: %w", err)
		}
	}

	mux := http.NewServeMux()
	handler := httpapi.NewHandler(dispatcher, a.cfg.Service, a.logger)
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: a.cfg.Server.Addr, Handler: mux}
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("relay listening",
			loggerpkg.F("addr", a.cfg.Server.Addr),
			loggerpkg.F("service", a.cfg.Service),
			loggerpkg.F("destinations", len(sinks)))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("graceful http shutdown failed", loggerpkg.F("error", err))
	}
	if tl != nil {
		tl.Stop()
	}
	if err := dispatcher.FlushAll(shutdownCtx); err != nil {
		a.logger.Warn("drain incomplete at shutdown", loggerpkg.F("error", err))
	}
	dispatcher.Close()
	return nil
}
