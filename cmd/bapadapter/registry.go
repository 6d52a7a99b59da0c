package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/ondcnet/bap-adapter/internal/discovery"
)

// ServiceRegistration tracks a running registry registration so
// Shutdown can deregister and stop the health-check loop cleanly.
type ServiceRegistration struct {
	registry    discovery.Registry
	instanceID  string
	serviceName string
	log         *slog.Logger
	stopChan    chan struct{}
}

func RegisterService(ctx context.Context, registry discovery.Registry, instanceID, serviceName, addr string, log *slog.Logger) (*ServiceRegistration, error) {
	if err := registry.Register(ctx, instanceID, serviceName, addr); err != nil {
		return nil, err
	}

	sr := &ServiceRegistration{registry: registry, instanceID: instanceID, serviceName: serviceName, log: log, stopChan: make(chan struct{})}
	go sr.runHealthCheck()
	return sr, nil
}

func (sr *ServiceRegistration) runHealthCheck() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sr.stopChan:
			return
		case <-ticker.C:
			if err := sr.registry.HealthCheck(sr.instanceID, sr.serviceName); err != nil {
				sr.log.Warn("health check failed", slog.Any("error", err))
			}
		}
	}
}

func (sr *ServiceRegistration) Deregister(ctx context.Context) error {
	close(sr.stopChan)
	return sr.registry.Deregister(ctx, sr.instanceID, sr.serviceName)
}
