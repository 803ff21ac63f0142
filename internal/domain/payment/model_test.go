package payment

import (
	"testing"
	"time"
)

func mustZone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	return loc
}

// TestValidate tests payment log validation rules.
func TestValidate(t *testing.T) {
	p := Log{ID: "p-1", MemberID: "m-1", Date: time.Now(), Amount: 25000}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	p.MemberID = ""
	if err := p.Validate(); err != ErrEmptyMemberID {
		t.Errorf("expected ErrEmptyMemberID, got %v", err)
	}

	p.MemberID = "m-1"
	p.Amount = 0
	if err := p.Validate(); err != ErrNonPositive {
		t.Errorf("expected ErrNonPositive, got %v", err)
	}
}

// TestLatest tests most-recent selection regardless of slice order.
func TestLatest(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Error("empty history should have no latest payment")
	}

	history := []Log{
		{ID: "p-2", Date: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "p-3", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p-1", Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
	}
	latest, ok := Latest(history)
	if !ok || latest.ID != "p-3" {
		t.Errorf("Latest = %v (%v), want p-3", latest.ID, ok)
	}
}

// TestCurrentSameMonth_MonthBoundary tests that a payment on the 1st covers
// that whole month but fails the very next day after the month rolls over.
func TestCurrentSameMonth_MonthBoundary(t *testing.T) {
	loc := mustZone(t)
	history := []Log{{ID: "p-1", MemberID: "m-1", Date: time.Date(2026, 3, 1, 10, 0, 0, 0, loc), Amount: 25000}}

	endOfMonth := time.Date(2026, 3, 31, 22, 0, 0, 0, loc)
	if !CurrentSameMonth(history, endOfMonth, loc) {
		t.Error("payment on the 1st should cover March 31")
	}

	firstOfApril := time.Date(2026, 4, 1, 8, 0, 0, 0, loc)
	if CurrentSameMonth(history, firstOfApril, loc) {
		t.Error("payment dated March should fail on April 1, even one day later")
	}
}

// TestCurrentSameMonth_UsesMostRecent tests that only the newest payment counts.
func TestCurrentSameMonth_UsesMostRecent(t *testing.T) {
	loc := mustZone(t)
	history := []Log{
		{ID: "p-1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, loc)},
		{ID: "p-2", Date: time.Date(2026, 1, 2, 0, 0, 0, 0, loc)},
	}
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, loc)
	if !CurrentSameMonth(history, now, loc) {
		t.Error("March payment should satisfy a March check")
	}
}

// TestCurrentWithinDays tests the rolling window used by listings.
func TestCurrentWithinDays(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	history := []Log{{ID: "p-1", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}}

	if !CurrentWithinDays(history, now, 30) {
		t.Error("payment 22 days back should pass a 30-day window")
	}
	if CurrentWithinDays(history, now, 15) {
		t.Error("payment 22 days back should fail a 15-day window")
	}
}
