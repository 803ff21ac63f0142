package schedule

import (
	"errors"
	"strings"

	"arcagym/internal/domain/gymtime"
)

// Day of week constants
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// ValidDays contains all valid day values.
var ValidDays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Domain errors
var (
	ErrEmptyMemberID = errors.New("member ID cannot be empty")
	ErrInvalidDay    = errors.New("day must be a valid day of the week")
	ErrEmptyStart    = errors.New("start time cannot be empty")
	ErrEmptyEnd      = errors.New("end time cannot be empty")
)

// Entry is one recurring weekly training slot in a member's habitual
// schedule. It is the seed for virtual reservations on days without a
// manual booking.
type Entry struct {
	ID        string
	MemberID  string
	Day       string // monday, tuesday, etc.
	StartTime string // HH:mm
	EndTime   string // HH:mm
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if !isValidDay(e.Day) {
		return ErrInvalidDay
	}
	if strings.TrimSpace(e.StartTime) == "" {
		return ErrEmptyStart
	}
	if _, _, err := gymtime.ParseTimeOfDay(e.StartTime); err != nil {
		return err
	}
	if strings.TrimSpace(e.EndTime) == "" {
		return ErrEmptyEnd
	}
	if _, _, err := gymtime.ParseTimeOfDay(e.EndTime); err != nil {
		return err
	}
	return nil
}

// MatchesDay reports whether this entry falls on the given weekday name.
// Comparison is case-insensitive so stored values survive manual edits.
func (e *Entry) MatchesDay(day string) bool {
	return strings.EqualFold(e.Day, day)
}

func isValidDay(day string) bool {
	for _, d := range ValidDays {
		if d == day {
			return true
		}
	}
	return false
}
