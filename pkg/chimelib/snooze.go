package chimelib

import (
	"fmt"
	"time"
)

// Snooze duration bounds, in minutes.
const (
	MinSnoozeMins = 1
	MaxSnoozeMins = 60
)

// ValidateSnooze checks a snooze duration in minutes against the bounds.
func ValidateSnooze(mins int) error {
	if mins < MinSnoozeMins || mins > MaxSnoozeMins {
		return fmt.Errorf("%w: %d", ErrInvalidSnooze, mins)
	}
	return nil
}

// ComputeSnooze returns the follow-up alarm produced when a ringing alarm
// is snoozed at now. It is pure and deterministic: the result rings at
// now plus the snooze duration (minute resolution, seconds dropped),
// carries the next snooze ordinal in its label, and is itself an active
// one-shot instance, not a snoozed one. All other fields are copied.
func ComputeSnooze(a Alarm, now time.Time) Alarm {
	next := a
	next.Time = ClockTimeAt(now.Add(time.Duration(a.SnoozeMins) * time.Minute))
	next.SnoozeCount = a.SnoozeCount + 1
	next.Label = fmt.Sprintf("%s (Snooze %d)", a.Label, next.SnoozeCount)
	next.Snoozed = false
	// A snoozed instance is a plain one-shot even when the base alarm
	// follows a cron schedule.
	next.Cron = ""
	return next
}
