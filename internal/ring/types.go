package ring

import (
	"context"
	"errors"

	"github.com/chimeapp/chime/pkg/chimelib"
)

// Decision is the outcome of a ring episode.
type Decision int

const (
	// DecisionNone means no decision was made yet.
	DecisionNone Decision = iota
	// DecisionDismiss ends the episode and returns the alarm to the scan.
	DecisionDismiss
	// DecisionSnooze defers the alarm by its snooze interval.
	DecisionSnooze
)

func (d Decision) String() string {
	switch d {
	case DecisionDismiss:
		return "dismiss"
	case DecisionSnooze:
		return "snooze"
	default:
		return "none"
	}
}

// Decider collects the user's dismiss-or-snooze choice for a ringing alarm.
// Decide blocks until a choice is made or ctx expires; an error or ctx
// expiry is treated as no decision and the coordinator's fallback applies.
type Decider interface {
	Decide(ctx context.Context, a chimelib.Alarm) (Decision, error)
}

// ErrAlreadyRinging is returned by Fire when another alarm holds the
// ring slot.
var ErrAlreadyRinging = errors.New("another alarm is already ringing")
