package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ondcnet/bap-adapter/internal/config"
	"github.com/ondcnet/bap-adapter/internal/logging"
	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

const shutdownGracePeriod = 10 * time.Second

func main() {
	_ = godotenv.Load()
	settings := config.Load()
	log := logging.New(settings.ServiceName)
	log.Info("starting service",
		slog.String("subscriber_id", settings.SubscriberID),
		slog.String("http_addr", settings.HTTPAddr),
		slog.String("domain", settings.Domain),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if settings.EnableTracing {
		shutdown, err := telemetry.InitTracer(ctx, settings.ServiceName, settings.OTLPEndpoint, log)
		if err != nil {
			log.Error("failed to initialize tracer", slog.Any("error", err))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	app, err := NewApp(settings)
	if err != nil {
		log.Error("failed to create app", slog.Any("error", err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer shutdownCancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", slog.Any("error", err))
		}
		cancel()
	}()

	if err := app.Start(ctx); err != nil {
		log.Error("failed to start app", slog.Any("error", err))
		os.Exit(1)
	}
}
