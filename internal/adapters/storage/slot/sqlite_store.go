package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arcagym/internal/adapters/storage"
	domain "arcagym/internal/domain/slot"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SlotStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const slotColumns = "id, date, time, duration_min, status"

func scanSlot(row interface{ Scan(...any) error }) (domain.Slot, error) {
	var entity domain.Slot
	var date string
	err := row.Scan(&entity.ID, &date, &entity.Time, &entity.DurationMin, &entity.Status)
	if err != nil {
		return domain.Slot{}, err
	}
	entity.Date, err = storage.ParseStoredTime(date)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("invalid slot date for %s: %w", entity.ID, err)
	}
	return entity, nil
}

// GetByID retrieves a Slot by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Slot, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+slotColumns+" FROM slot WHERE id = ?", id)
	entity, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return domain.Slot{}, fmt.Errorf("slot not found: %w", err)
	}
	return entity, err
}

// Save persists a Slot to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Slot) error {
	query := `INSERT INTO slot (id, date, time, duration_min, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date, time=excluded.time,
			duration_min=excluded.duration_min, status=excluded.status`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		storage.FormatStoredTime(entity.Date),
		entity.Time,
		entity.DurationMin,
		entity.Status,
	)
	return err
}

// Delete removes a Slot from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM slot WHERE id = ?", id)
	return err
}

// ListByDate retrieves all slots for a calendar day, ordered by time.
// PRE: date is a valid time
// POST: Returns slots whose date falls on the same calendar day as date
func (s *SQLiteStore) ListByDate(ctx context.Context, date time.Time) ([]domain.Slot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+slotColumns+" FROM slot WHERE date >= ? AND date < ? ORDER BY time",
		storage.FormatStoredTime(dayStart), storage.FormatStoredTime(dayEnd))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Slot
	for rows.Next() {
		entity, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
