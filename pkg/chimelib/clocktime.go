package chimelib

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a minute-resolution time of day. Alarms carry no date
// component: an alarm is due whenever its hour and minute next occur.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClockTime parses a strict 24-hour "HH:MM" string. Both segments
// must be numeric, hours 0-23 and minutes 0-59; everything else is
// rejected before acceptance.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, err := parseClockSegment(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	m, err := parseClockSegment(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if h > 23 || m > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// parseClockSegment parses one HH or MM segment. Digits only; strconv
// alone would also accept signs and spaces.
func parseClockSegment(s string) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, ErrInvalidTimeFormat
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidTimeFormat
		}
	}
	return strconv.Atoi(s)
}

// ClockTimeAt truncates t to minute resolution, the granularity every
// wall-clock comparison in the monitor uses.
func ClockTimeAt(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// Matches reports whether now's wall-clock hour and minute equal t.
func (t ClockTime) Matches(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}

// NextAfter returns the first instant at or after now whose wall clock
// reads t. The result is truncated to the minute.
func (t ClockTime) NextAfter(now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if at.Before(now.Truncate(time.Minute)) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
