package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"arcagym/internal/adapters/storage"
	domain "arcagym/internal/domain/member"
	scheduleDomain "arcagym/internal/domain/schedule"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new MemberStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "id, dni, first_name, last_name, email, phone, photo_url, join_date, status"

func scanMember(row interface{ Scan(...any) error }) (domain.Member, error) {
	var entity domain.Member
	err := row.Scan(
		&entity.ID,
		&entity.DNI,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&entity.Phone,
		&entity.PhotoURL,
		&entity.JoinDate,
		&entity.Status,
	)
	return entity, err
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByDNI retrieves a Member by document number.
// PRE: dni is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByDNI(ctx context.Context, dni string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE dni = ?", dni)
	entity, err := scanMember(row)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	fields := []string{"id", "dni", "first_name", "last_name", "email", "phone", "photo_url", "join_date", "status"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"dni=excluded.dni", "first_name=excluded.first_name", "last_name=excluded.last_name",
		"email=excluded.email", "phone=excluded.phone", "photo_url=excluded.photo_url",
		"join_date=excluded.join_date", "status=excluded.status",
	}

	query := fmt.Sprintf(
		"INSERT INTO member (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.DNI,
		entity.FirstName,
		entity.LastName,
		entity.Email,
		entity.Phone,
		entity.PhotoURL,
		entity.JoinDate,
		entity.Status,
	)
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// List retrieves members matching the filter, ordered by last name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM member"
	var args []any
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY last_name, first_name"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// ListActive retrieves all active members ordered by last name.
// POST: Returns all entities with active status
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Member, error) {
	return s.List(ctx, ListFilter{Status: domain.StatusActive})
}

// ListSchedule retrieves the member's weekly habitual schedule entries.
// PRE: memberID is non-empty
// POST: Returns entries ordered by day then start time
func (s *SQLiteStore) ListSchedule(ctx context.Context, memberID string) ([]scheduleDomain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, day, start_time, end_time FROM member_schedule WHERE member_id = ? ORDER BY day, start_time",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []scheduleDomain.Entry
	for rows.Next() {
		var e scheduleDomain.Entry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Day, &e.StartTime, &e.EndTime); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// SaveScheduleEntry persists one weekly schedule entry.
// PRE: entry has been validated
// POST: Entry is persisted (insert or update)
func (s *SQLiteStore) SaveScheduleEntry(ctx context.Context, entry scheduleDomain.Entry) error {
	query := `INSERT INTO member_schedule (id, member_id, day, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id, day=excluded.day,
			start_time=excluded.start_time, end_time=excluded.end_time`
	_, err := s.db.ExecContext(ctx, query, entry.ID, entry.MemberID, entry.Day, entry.StartTime, entry.EndTime)
	return err
}

// DeleteScheduleEntry removes one weekly schedule entry.
// PRE: id is non-empty
// POST: Entry with given id is removed
func (s *SQLiteStore) DeleteScheduleEntry(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member_schedule WHERE id = ?", id)
	return err
}
