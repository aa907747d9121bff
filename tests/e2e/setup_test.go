//go:build integration

package e2e

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/light-bringer/apartment-registry/internal/config"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/internal/services"
	"github.com/light-bringer/apartment-registry/tests/testutil"
)

// Suite holds the wired use cases plus the infrastructure the tests inspect.
type Suite struct {
	*services.ServiceOptions

	Clock  *clock.MockClock
	Client *spanner.Client
}

// setupTest wires every use case against the emulator with a controllable clock.
func setupTest(t *testing.T) (*Suite, func()) {
	t.Helper()

	client, cleanup := testutil.SetupSpannerTest(t)
	mockClock := testutil.NewMockClock()

	cfg := &config.Config{
		Query:    config.QueryConfig{DefaultLimit: 100, MaxLimit: 1000},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
	m := metrics.NewMetrics(prometheus.NewRegistry())

	return &Suite{
		ServiceOptions: services.Wire(client, cfg, mockClock, m, zerolog.Nop()),
		Clock:          mockClock,
		Client:         client,
	}, cleanup
}

// ctx returns a context for testing.
func ctx() context.Context {
	return context.Background()
}
