package payment

import (
	"context"
	"database/sql"
	"fmt"

	"arcagym/internal/adapters/storage"
	domain "arcagym/internal/domain/payment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PaymentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const logColumns = "id, member_id, date, amount, concept, method"

func scanLog(row interface{ Scan(...any) error }) (domain.Log, error) {
	var entity domain.Log
	var date string
	err := row.Scan(&entity.ID, &entity.MemberID, &date, &entity.Amount, &entity.Concept, &entity.Method)
	if err != nil {
		return domain.Log{}, err
	}
	entity.Date, err = storage.ParseStoredTime(date)
	if err != nil {
		return domain.Log{}, fmt.Errorf("invalid payment date for %s: %w", entity.ID, err)
	}
	return entity, nil
}

// GetByID retrieves a payment Log by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Log, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+logColumns+" FROM payment_log WHERE id = ?", id)
	entity, err := scanLog(row)
	if err == sql.ErrNoRows {
		return domain.Log{}, fmt.Errorf("payment not found: %w", err)
	}
	return entity, err
}

// Save persists a payment Log to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Log) error {
	query := `INSERT INTO payment_log (id, member_id, date, amount, concept, method)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id, date=excluded.date, amount=excluded.amount,
			concept=excluded.concept, method=excluded.method`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		storage.FormatStoredTime(entity.Date),
		entity.Amount,
		entity.Concept,
		entity.Method,
	)
	return err
}

// Delete removes a payment Log from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM payment_log WHERE id = ?", id)
	return err
}

// ListByMember retrieves all payments for a member, newest first.
// PRE: memberID is non-empty
// POST: Returns matching entities ordered by date descending
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Log, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+logColumns+" FROM payment_log WHERE member_id = ? ORDER BY date DESC",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Log
	for rows.Next() {
		entity, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Latest retrieves the most recent payment for a member.
// PRE: memberID is non-empty
// POST: Returns the newest entity and true, or false if the member has no payments
func (s *SQLiteStore) Latest(ctx context.Context, memberID string) (domain.Log, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+logColumns+" FROM payment_log WHERE member_id = ? ORDER BY date DESC LIMIT 1",
		memberID)
	entity, err := scanLog(row)
	if err == sql.ErrNoRows {
		return domain.Log{}, false, nil
	}
	if err != nil {
		return domain.Log{}, false, err
	}
	return entity, true, nil
}
