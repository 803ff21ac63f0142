package gymtime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultAccessWindow is how long entry stays permitted after a reservation's
// base instant unless configured otherwise.
const DefaultAccessWindow = 2 * time.Hour

// Domain errors
var (
	ErrEmptyTimeOfDay   = errors.New("time of day cannot be empty")
	ErrInvalidTimeOfDay = errors.New("time of day must be in HH:mm format")
)

// Resolver converts wall-clock instants to and from one fixed civil time
// zone. All local-day and slot-time math in the system goes through it so
// that day boundaries and slot instants agree regardless of server locale.
type Resolver struct {
	loc *time.Location
}

// NewResolver creates a Resolver for the given fixed zone.
// PRE: loc is non-nil
func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{loc: loc}
}

// Location returns the fixed zone.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// DayBounds projects now into the zone's civil date and returns that date's
// first and last millisecond as absolute instants.
// POST: start is 00:00:00.000 and end is 23:59:59.999 of now's local date
func (r *Resolver) DayBounds(now time.Time) (start, end time.Time) {
	local := now.In(r.loc)
	y, m, d := local.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), r.loc)
	return start, end
}

// SlotInstant combines the calendar-date component of calendarDate with a
// separate "HH:mm" time-of-day string, both interpreted in the fixed zone,
// and returns the absolute instant. Any time-of-day carried by calendarDate
// is ignored.
func (r *Resolver) SlotInstant(calendarDate time.Time, timeOfDay string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := calendarDate.In(r.loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, r.loc), nil
}

// DayName returns now's lowercase English weekday name in the fixed zone.
func (r *Resolver) DayName(now time.Time) string {
	return strings.ToLower(now.In(r.loc).Weekday().String())
}

// WithinWindow reports whether now falls inside the admission window anchored
// at base. Both the start and the +window edge are inclusive; anything
// outside is rejected (fail closed).
// POST: true iff 0 <= now-base <= window
func WithinWindow(base, now time.Time, window time.Duration) bool {
	diff := now.Sub(base)
	return diff >= 0 && diff <= window
}

// ParseTimeOfDay parses an "HH:mm" string into hour and minute components.
// "HH:mm:ss" values are accepted and the seconds discarded, since older slot
// rows carry them.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, 0, ErrEmptyTimeOfDay
	}
	parsed, err := time.Parse("15:04:05", v)
	if err != nil {
		parsed, err = time.Parse("15:04", v)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return parsed.Hour(), parsed.Minute(), nil
}
