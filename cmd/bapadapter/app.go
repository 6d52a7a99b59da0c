package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ondcnet/bap-adapter/internal/authboundary"
	"github.com/ondcnet/bap-adapter/internal/catalog"
	"github.com/ondcnet/bap-adapter/internal/commerce"
	"github.com/ondcnet/bap-adapter/internal/config"
	"github.com/ondcnet/bap-adapter/internal/discovery"
	"github.com/ondcnet/bap-adapter/internal/discovery/consul"
	"github.com/ondcnet/bap-adapter/internal/discovery/inmem"
	"github.com/ondcnet/bap-adapter/internal/dispatcher"
	"github.com/ondcnet/bap-adapter/internal/eventbus"
	"github.com/ondcnet/bap-adapter/internal/httpapi"
	"github.com/ondcnet/bap-adapter/internal/logging"
	"github.com/ondcnet/bap-adapter/internal/notify"
	"github.com/ondcnet/bap-adapter/internal/participant"
	"github.com/ondcnet/bap-adapter/internal/signer"
	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

// App owns every long-lived resource the adapter process holds: two
// datastore connections, a message broker channel, an optional
// service-registry registration, and the two HTTP listeners (business
// API and metrics).
type App struct {
	settings config.Settings
	log      *slog.Logger

	pg      *sql.DB
	mongoClose func(context.Context) error
	amqpClose  func() error

	registry     discovery.Registry
	registration *ServiceRegistration

	httpServer    *http.Server
	metricsServer *http.Server
}

func NewApp(settings config.Settings) (*App, error) {
	return &App{
		settings: settings,
		log:      logging.New(settings.ServiceName),
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		a.log.Info("no .env file found, using defaults")
	}

	pg, err := openPostgres(a.settings.PostgresDSN)
	if err != nil {
		return err
	}
	a.pg = pg

	mongoDB, mongoClose, err := catalog.Connect(ctx, a.settings.MongoURI, a.settings.MongoDB)
	if err != nil {
		return err
	}
	a.mongoClose = mongoClose

	amqpCh, amqpClose, err := eventbus.Connect(a.settings.RabbitMQURL)
	if err != nil {
		return err
	}
	a.amqpClose = amqpClose

	a.registry = a.createRegistry()
	if a.registry != nil {
		instanceID := a.settings.InstanceID
		if instanceID == "" {
			instanceID = discovery.GenerateInstanceID(a.settings.ServiceName)
		}
		reg, err := RegisterService(ctx, a.registry, instanceID, a.settings.ServiceName, a.settings.HTTPAddr, a.log)
		if err != nil {
			return fmt.Errorf("register service: %w", err)
		}
		a.registration = reg
	}

	businessMetrics := telemetry.NewBusinessMetrics(a.settings.ServiceName)
	dispatchMetrics := telemetry.NewDispatchMetrics(a.settings.ServiceName)
	httpMetrics := telemetry.NewHTTPMetrics(a.settings.ServiceName)

	participantStore := participant.NewStore(a.pg)
	participantCache, err := participant.NewCache(a.settings.RedisAddr, a.settings.ParticipantCacheTTL)
	if err != nil {
		return err
	}
	directory := participant.NewDirectory(participantStore, participantCache, a.settings.SubscriberURI, a.log, businessMetrics)

	catalogStore := catalog.NewStore(mongoDB)
	commerceStore := commerce.NewStore(a.pg)

	sign, err := a.buildSigner()
	if err != nil {
		return err
	}
	notifier := notify.NewBusEmitter(amqpCh, a.log)

	dispatch := dispatcher.New(directory, catalogStore, commerceStore, sign, notifier, dispatchMetrics, a.log, dispatcher.Config{
		SelfSubscriberID: a.settings.SubscriberID,
		SelfUkID:         a.settings.SigningKeyID,
		SelfURI:          a.settings.SubscriberURI,
		DomainCode:       a.settings.Domain,
		MaxRetries:       a.settings.DispatchRetries,
		Timeout:          a.settings.DispatchTimeout,
	})

	handler := httpapi.NewHandler(dispatch, authboundary.PassThrough{}, "IND", a.log)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	a.httpServer = &http.Server{Addr: a.settings.HTTPAddr, Handler: httpapi.WithMetrics(httpMetrics, mux)}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", promhttp.Handler())
	a.metricsServer = &http.Server{Addr: a.settings.MetricsAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		a.log.Info("starting metrics server", slog.String("addr", a.settings.MetricsAddr))
		errCh <- a.metricsServer.ListenAndServe()
	}()
	go func() {
		a.log.Info("starting http server", slog.String("addr", a.settings.HTTPAddr))
		errCh <- a.httpServer.ListenAndServe()
	}()

	err = <-errCh
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down gracefully")

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("http server shutdown error", slog.Any("error", err))
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.log.Error("metrics server shutdown error", slog.Any("error", err))
		}
	}
	if a.registration != nil {
		if err := a.registration.Deregister(ctx); err != nil {
			a.log.Error("deregister error", slog.Any("error", err))
		}
	}
	if a.amqpClose != nil {
		if err := a.amqpClose(); err != nil {
			a.log.Error("amqp close error", slog.Any("error", err))
		}
	}
	if a.mongoClose != nil {
		if err := a.mongoClose(ctx); err != nil {
			a.log.Error("mongo close error", slog.Any("error", err))
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.log.Error("postgres close error", slog.Any("error", err))
		}
	}
	return nil
}

func (a *App) createRegistry() discovery.Registry {
	if !a.settings.EnableDiscovery {
		a.log.Info("service discovery disabled")
		return inmem.NewRegistry()
	}
	reg, err := consul.NewRegistry(a.settings.ConsulAddr)
	if err != nil {
		a.log.Error("consul unavailable, falling back to in-memory registry", slog.Any("error", err))
		return inmem.NewRegistry()
	}
	return reg
}

// buildSigner constructs the dev Ed25519 signer. If no seed is
// configured, it generates an ephemeral key for the process lifetime
// so the adapter is runnable standalone, per internal/signer's own
// documented scope (production signing is an external collaborator).
func (a *App) buildSigner() (signer.Signer, error) {
	var priv ed25519.PrivateKey
	if a.settings.SigningKeySeedBase64 == "" {
		_, generated, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		priv = generated
		a.log.Warn("no signing key configured, generated an ephemeral one for this process")
	} else {
		seed, err := base64.StdEncoding.DecodeString(a.settings.SigningKeySeedBase64)
		if err != nil {
			return nil, fmt.Errorf("decode signing key seed: %w", err)
		}
		priv = ed25519.NewKeyFromSeed(seed)
	}

	return signer.NewDevSigner(priv, a.settings.SigningKeyID, func() int64 { return time.Now().Unix() }), nil
}
