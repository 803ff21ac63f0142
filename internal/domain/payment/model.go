package payment

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyMemberID = errors.New("payment must be associated with a member")
	ErrZeroDate      = errors.New("payment date must be set")
	ErrNonPositive   = errors.New("payment amount must be positive")
)

// Log is one entry in a member's ordered payment history.
type Log struct {
	ID       string
	MemberID string
	Date     time.Time
	Amount   int // whole pesos
	Concept  string
	Method   string
}

// Validate checks if the payment Log has valid data.
// PRE: Log struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (l *Log) Validate() error {
	if l.MemberID == "" {
		return ErrEmptyMemberID
	}
	if l.Date.IsZero() {
		return ErrZeroDate
	}
	if l.Amount <= 0 {
		return ErrNonPositive
	}
	return nil
}

// Latest returns the most recent payment, or false when the history is empty.
func Latest(history []Log) (Log, bool) {
	var latest Log
	found := false
	for _, p := range history {
		if !found || p.Date.After(latest.Date) {
			latest = p
			found = true
		}
	}
	return latest, found
}

// CurrentSameMonth reports whether the most recent payment shares calendar
// year and month with now, both projected into the given zone. This is the
// strict rule the physical-access gate uses: a payment on the 1st covers the
// rest of that month and nothing beyond it.
func CurrentSameMonth(history []Log, now time.Time, loc *time.Location) bool {
	latest, ok := Latest(history)
	if !ok {
		return false
	}
	py, pm, _ := latest.Date.In(loc).Date()
	ny, nm, _ := now.In(loc).Date()
	return py == ny && pm == nm
}

// CurrentWithinDays reports whether any payment landed in the trailing
// rolling window of the given number of days. Listings and dashboards use
// this looser rule; the access gate does not.
func CurrentWithinDays(history []Log, now time.Time, days int) bool {
	cutoff := now.AddDate(0, 0, -days)
	for _, p := range history {
		if !p.Date.Before(cutoff) && !p.Date.After(now) {
			return true
		}
	}
	return false
}
