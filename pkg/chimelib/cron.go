package chimelib

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// ValidateCron checks a recurrence expression. Alarms are minute
// resolution, so exactly 5 fields are required; gronx alone would also
// accept 6-field (seconds) expressions.
func ValidateCron(expr string) error {
	if len(strings.Fields(expr)) != 5 {
		return fmt.Errorf("%w: %q", ErrInvalidCron, expr)
	}
	if !gronx.IsValid(expr) {
		return fmt.Errorf("%w: %q", ErrInvalidCron, expr)
	}
	return nil
}

// NextCronOccurrence returns the next time the cron expression fires
// strictly after start.
func NextCronOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}
