package slot

import (
	"errors"
	"time"

	"arcagym/internal/domain/gymtime"
)

// Status constants
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusOccupied  = "occupied"
)

// Domain errors
var (
	ErrZeroDate      = errors.New("slot date must be set")
	ErrInvalidStatus = errors.New("status must be 'available', 'reserved', or 'occupied'")
)

// Slot is a bookable calendar session: a calendar date plus a time-of-day
// string. The date column may carry a stray time component from older
// imports; only its date part is ever meaningful.
type Slot struct {
	ID          string
	Date        time.Time
	Time        string // HH:mm
	DurationMin int
	Status      string
}

// Validate checks if the Slot has valid data.
// PRE: Slot struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Slot) Validate() error {
	if s.Date.IsZero() {
		return ErrZeroDate
	}
	if _, _, err := gymtime.ParseTimeOfDay(s.Time); err != nil {
		return err
	}
	if s.Status != StatusAvailable && s.Status != StatusReserved && s.Status != StatusOccupied {
		return ErrInvalidStatus
	}
	return nil
}
