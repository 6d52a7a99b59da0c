// Package discovery lets the adapter register itself in a service
// registry so a deployment can run several adapter instances behind a
// shared discovery layer. It has nothing to do with reaching the ONDC
// network itself: sellers and the registry are addressed directly by
// subscriber URI, never through this package.
package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type Registry interface {
	Register(ctx context.Context, instanceID, serviceName, hostPort string) error
	Deregister(ctx context.Context, instanceID, serviceName string) error
	Discover(ctx context.Context, serviceName string) ([]string, error)
	HealthCheck(instanceID, serviceName string) error
}

// GenerateInstanceID builds a unique registry id for this process.
func GenerateInstanceID(serviceName string) string {
	return fmt.Sprintf("%s-%d", serviceName, rand.New(rand.NewSource(time.Now().UnixNano())).Int())
}
