package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/lechuhuuha/log_relay/cmd/bootstrap"
	"github.com/lechuhuuha/log_relay/internal/metrics"
	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/util"
)

func main() {
	configPath := flag.String("config", util.GetEnv("RELAY_CONFIG", ""), "Path to YAML config file (required)")
	addr := flag.String("addr", util.GetEnv("RELAY_ADDR", ""), "HTTP listen address (optional override)")
	service := flag.String("service", util.GetEnv("RELAY_SERVICE", ""), "Service name (optional override)")
	flag.Parse()

	diag, cleanup, err := loggerpkg.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer cleanup()

	metrics.Init()

	app, err := bootstrap.BuildApp(bootstrap.AppConfig{
		ConfigPath: *configPath,
		Addr:       *addr,
		Service:    *service,
	}, diag)
	if err != nil {
		diag.Error("failed to build app", loggerpkg.F("error", err))
		cleanup()
		log.Fatalf("failed to build app: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		diag.Error("relay exited with error", loggerpkg.F("error", err))
		cleanup()
		log.Fatalf("relay exited with error: %v", err)
	}
}
