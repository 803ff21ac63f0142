package routine

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyMemberID = errors.New("routine must be associated with a member")
	ErrEmptyName     = errors.New("routine name cannot be empty")
)

// Routine is a member's training program: a named set of training days.
type Routine struct {
	ID        string
	MemberID  string
	Name      string
	CreatedAt time.Time
	Days      []Day
}

// Day groups the exercises for one training day of a routine.
type Day struct {
	ID        string
	RoutineID string
	Name      string // e.g. "Día 1: Tren superior"
	Position  int
	Exercises []Exercise
}

// Exercise is one prescribed movement. Notes may contain markdown shown to
// the member on the kiosk.
type Exercise struct {
	ID       string
	DayID    string
	Name     string
	Series   int
	Reps     string // free-form, e.g. "8-10" or "al fallo"
	Weight   string
	Notes    string
	Position int
}

// Validate checks if the Routine has valid data.
// PRE: Routine struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Routine) Validate() error {
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
