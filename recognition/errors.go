/*
errors.go - Centralized error types for the recognition engine

PURPOSE:
  All error types of the core in one place. The API layer maps these to
  HTTP statuses; the core itself only ever fails synchronously and fully -
  there is no partial result on error.

ERROR CATEGORIES:
  1. Validation errors - domain rule violations (prepayment cap)
  2. Date errors - impossible calendar dates during schedule walks

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, recognition.ErrPrepaymentCapExceeded) {
        // reject the whole simulation request
    }

SEE ALSO:
  - simulator.go: raises ErrPrepaymentCapExceeded
  - date.go: MakeDate raises DateError
*/
package recognition

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPrepaymentCapExceeded is returned when a single round is paid more
	// than 721 days (about two years) ahead of its due date. The whole
	// calculation fails; regulation does not allow clamping here.
	ErrPrepaymentCapExceeded = errors.New("prepayment days exceed 721-day cap")

	// ErrInvalidDayOfMonth is returned when a schedule walk lands on a
	// day-of-month that does not exist in the target month.
	ErrInvalidDayOfMonth = errors.New("day of month does not exist")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DateError reports the exact impossible date a schedule walk produced,
// e.g. advancing a day-31 schedule into April.
type DateError struct {
	Year  int
	Month time.Month
	Day   int
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid calendar date: %04d-%02d-%02d", e.Year, int(e.Month), e.Day)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDayOfMonth
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrPrepaymentCapExceeded) ||
		errors.Is(err, ErrInvalidDayOfMonth)
}
