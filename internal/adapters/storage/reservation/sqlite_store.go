package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arcagym/internal/adapters/storage"
	domain "arcagym/internal/domain/reservation"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ReservationStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Reads join the slot table so SlotDate and SlotTime are always hydrated.
const selectManual = `SELECT r.id, r.member_id, r.slot_id, s.date, s.time,
	r.client_name, r.client_phone, r.client_email,
	r.accessed_at, r.attended, r.created_at
	FROM reservation r JOIN slot s ON s.id = r.slot_id`

func scanManual(row interface{ Scan(...any) error }) (*domain.Manual, error) {
	var entity domain.Manual
	var slotDate, createdAt string
	var phone, email, accessedAt sql.NullString
	var attended sql.NullInt64

	err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.SlotID,
		&slotDate,
		&entity.SlotTime,
		&entity.Client.Name,
		&phone,
		&email,
		&accessedAt,
		&attended,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entity.Client.Phone = phone.String
	entity.Client.Email = email.String

	if entity.SlotDate, err = storage.ParseStoredTime(slotDate); err != nil {
		return nil, fmt.Errorf("invalid slot date for reservation %s: %w", entity.ID, err)
	}
	if entity.CreatedAt, err = storage.ParseStoredTime(createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for reservation %s: %w", entity.ID, err)
	}
	if accessedAt.Valid {
		if entity.AccessedAt, err = storage.ParseStoredTime(accessedAt.String); err != nil {
			return nil, fmt.Errorf("invalid accessed_at for reservation %s: %w", entity.ID, err)
		}
	}
	if attended.Valid {
		entity.Attended = domain.Attended(attended.Int64)
	}
	return &entity, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// GetByID retrieves a Manual reservation by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*domain.Manual, error) {
	row := s.db.QueryRowContext(ctx, selectManual+" WHERE r.id = ?", id)
	entity, err := scanManual(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reservation not found: %w", err)
	}
	return entity, err
}

// Save persists a Manual reservation to the database. The hydrated slot
// fields are not written; the slot row owns them.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity *domain.Manual) error {
	var accessedAt sql.NullString
	if entity.HasAccessed() {
		accessedAt = sql.NullString{String: storage.FormatStoredTime(entity.AccessedAt), Valid: true}
	}
	var attended sql.NullInt64
	if entity.Attended != domain.AttendedUnset {
		attended = sql.NullInt64{Int64: int64(entity.Attended), Valid: true}
	}

	query := `INSERT INTO reservation
		(id, member_id, slot_id, client_name, client_phone, client_email, accessed_at, attended, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id, slot_id=excluded.slot_id,
			client_name=excluded.client_name, client_phone=excluded.client_phone,
			client_email=excluded.client_email, accessed_at=excluded.accessed_at,
			attended=excluded.attended`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.SlotID,
		entity.Client.Name,
		nullStr(entity.Client.Phone),
		nullStr(entity.Client.Email),
		accessedAt,
		attended,
		storage.FormatStoredTime(entity.CreatedAt),
	)
	return err
}

// Delete removes a Manual reservation from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reservation WHERE id = ?", id)
	return err
}

// ListByMember retrieves all reservations for a member, newest slot first.
// PRE: memberID is non-empty
// POST: Returns matching entities with slot fields hydrated
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]*domain.Manual, error) {
	rows, err := s.db.QueryContext(ctx,
		selectManual+" WHERE r.member_id = ? ORDER BY s.date DESC, s.time DESC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectManuals(rows)
}

// ListByDateRange retrieves reservations whose slot date falls in [from, to).
// PRE: from is before to
// POST: Returns matching entities ordered by slot date then time
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Manual, error) {
	rows, err := s.db.QueryContext(ctx,
		selectManual+" WHERE s.date >= ? AND s.date < ? ORDER BY s.date, s.time",
		storage.FormatStoredTime(from), storage.FormatStoredTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectManuals(rows)
}

func collectManuals(rows *sql.Rows) ([]*domain.Manual, error) {
	var results []*domain.Manual
	for rows.Next() {
		entity, err := scanManual(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// MarkAccessed records the first check-in with a conditional update so a
// concurrent duplicate request cannot overwrite the recorded instant.
// PRE: id is non-empty, at is the captured request clock
// POST: accessed_at and attended are set iff accessed_at was NULL; returns
// whether this call performed the write
func (s *SQLiteStore) MarkAccessed(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE reservation SET accessed_at = ?, attended = ? WHERE id = ? AND accessed_at IS NULL",
		storage.FormatStoredTime(at), int64(domain.AttendedPresent), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkAbsent sets the attendance mark to absent.
// PRE: id is non-empty
// POST: attended is absent
func (s *SQLiteStore) MarkAbsent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE reservation SET attended = ? WHERE id = ?",
		int64(domain.AttendedAbsent), id)
	return err
}
