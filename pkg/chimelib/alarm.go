// Package chimelib provides the core structures and utilities for managing
// alarms in the Chime application: the alarm entity, the persistent alarm
// store, snooze computation, tone resolution and cron recurrence helpers.
package chimelib

import (
	"fmt"
	"time"
)

// Alarm represents a registered alarm with its schedule and snooze state.
type Alarm struct {
	// ID is the stable identifier of the alarm. Display ordinals are
	// resolved to IDs at the presentation boundary only.
	ID string `json:"id"`
	// Label is the display name of the alarm.
	Label string `json:"label"`
	// Time is the wall-clock time of day the alarm rings at.
	Time ClockTime `json:"time"`
	// Cron optionally restricts ringing to a 5-field cron schedule.
	// Empty means the alarm rings every day at Time.
	Cron string `json:"cron"`
	// Tone is the path of the sound resource played while ringing.
	// The core does not interpret it beyond handing it to the player.
	Tone string `json:"tone"`
	// SnoozeMins is how many minutes a snooze postpones the alarm by.
	SnoozeMins int `json:"snooze_mins"`
	// Enabled marks whether the main scan considers this alarm.
	Enabled bool `json:"enabled"`
	// Snoozed is true while a snoozed instance derived from this alarm
	// is pending in a watch task. It keeps the main scan from ringing
	// the alarm again before the episode resolves.
	Snoozed bool `json:"snoozed"`
	// SnoozeCount is the number of snoozes in the current episode.
	SnoozeCount int `json:"snooze_count"`
	// DateAdded is the time when the alarm was registered.
	DateAdded time.Time `json:"date_added"`
}

// NewAlarm creates an enabled alarm. An empty label defaults to a value
// derived from the alarm time.
func NewAlarm(t ClockTime, tone string, snoozeMins int, label string) *Alarm {
	if label == "" {
		label = fmt.Sprintf("Alarm at %s", t)
	}
	return &Alarm{
		ID:         generateID(),
		Label:      label,
		Time:       t,
		Tone:       tone,
		SnoozeMins: snoozeMins,
		Enabled:    true,
		DateAdded:  time.Now(),
	}
}
