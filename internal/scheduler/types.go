package scheduler

import (
	"context"
	"time"

	"github.com/chimeapp/chime/internal/ring"
	"github.com/chimeapp/chime/pkg/chimelib"
)

// DefaultInterval is how often the main loop scans the store for due
// alarms.
const DefaultInterval = 30 * time.Second

// Ringer runs a full firing episode for a due alarm. Fire returns
// ring.ErrAlreadyRinging when another episode holds the ring slot; the
// caller retries on a later tick.
type Ringer interface {
	Fire(ctx context.Context, a chimelib.Alarm) (ring.Decision, error)
}

// Options tune a Loop. Zero values pick the defaults.
type Options struct {
	// Interval is the scan tick period.
	Interval time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}
