package testutil

import (
	"time"

	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
)

// NewMockClock creates a mock clock starting now, truncated to the
// microsecond precision Spanner stores timestamps with.
func NewMockClock() *clock.MockClock {
	return clock.NewMockClock(time.Now().UTC().Truncate(time.Microsecond))
}
