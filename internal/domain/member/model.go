package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxDNILength  = 20
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrAlreadyInactive = errors.New("member is already inactive")
	ErrAlreadyActive   = errors.New("member is already active")
)

// Member holds state for a gym member. DNI is the identity credential a
// member presents at the self-service kiosk.
type Member struct {
	ID        string
	DNI       string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	PhotoURL  string
	JoinDate  string // YYYY-MM-DD
	Status    string
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: FirstName must not be empty, DNI must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.FirstName) == "" {
		return errors.New("member first name cannot be empty")
	}
	if len(m.FirstName) > MaxNameLength || len(m.LastName) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if strings.TrimSpace(m.DNI) == "" {
		return errors.New("member DNI cannot be empty")
	}
	if len(m.DNI) > MaxDNILength {
		return errors.New("member DNI cannot exceed 20 characters")
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return errors.New("member email must be valid")
	}
	if m.Status != StatusActive && m.Status != StatusInactive {
		return errors.New("status must be 'active' or 'inactive'")
	}
	return nil
}

// FullName returns the display name for the member.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// IsActive returns true if the member is currently active.
// INVARIANT: Status field is not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Deactivate sets the member status to inactive.
// PRE: Member is not already inactive
// POST: Status is set to inactive
func (m *Member) Deactivate() error {
	if m.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	m.Status = StatusInactive
	return nil
}

// Activate sets the member status back to active.
// PRE: Member is currently inactive
// POST: Status is set to active
func (m *Member) Activate() error {
	if m.Status == StatusActive {
		return ErrAlreadyActive
	}
	m.Status = StatusActive
	return nil
}
