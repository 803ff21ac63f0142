package routine

import (
	"context"
	"database/sql"
	"fmt"

	"arcagym/internal/adapters/storage"
	domain "arcagym/internal/domain/routine"
)

// SQLiteStore implements Store using SQLite. Routines are stored across
// three tables; Save rewrites the day and exercise rows wholesale inside a
// transaction, which keeps positions consistent without diffing.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new RoutineStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Routine with its days and exercises hydrated.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Routine, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, member_id, name, created_at FROM routine WHERE id = ?", id)
	entity, err := s.scanRoutine(ctx, row)
	if err == sql.ErrNoRows {
		return domain.Routine{}, fmt.Errorf("routine not found: %w", err)
	}
	return entity, err
}

// ListByMember retrieves a member's routines, newest first, fully hydrated.
// PRE: memberID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Routine, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, name, created_at FROM routine WHERE member_id = ? ORDER BY created_at DESC",
		memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Routine
	for rows.Next() {
		entity, err := s.scanRoutine(ctx, rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) scanRoutine(ctx context.Context, row interface{ Scan(...any) error }) (domain.Routine, error) {
	var entity domain.Routine
	var createdAt string
	if err := row.Scan(&entity.ID, &entity.MemberID, &entity.Name, &createdAt); err != nil {
		return domain.Routine{}, err
	}
	var err error
	if entity.CreatedAt, err = storage.ParseStoredTime(createdAt); err != nil {
		return domain.Routine{}, fmt.Errorf("invalid created_at for routine %s: %w", entity.ID, err)
	}
	if entity.Days, err = s.loadDays(ctx, entity.ID); err != nil {
		return domain.Routine{}, err
	}
	return entity, nil
}

func (s *SQLiteStore) loadDays(ctx context.Context, routineID string) ([]domain.Day, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, routine_id, name, position FROM routine_day WHERE routine_id = ? ORDER BY position",
		routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d.ID, &d.RoutineID, &d.Name, &d.Position); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		if days[i].Exercises, err = s.loadExercises(ctx, days[i].ID); err != nil {
			return nil, err
		}
	}
	return days, nil
}

func (s *SQLiteStore) loadExercises(ctx context.Context, dayID string) ([]domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, day_id, name, series, reps, weight, notes, position FROM routine_exercise WHERE day_id = ? ORDER BY position",
		dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.DayID, &e.Name, &e.Series, &e.Reps, &e.Weight, &e.Notes, &e.Position); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// Save persists a Routine with its full day and exercise tree.
// PRE: entity has been validated
// POST: Entity is persisted; stale day/exercise rows are removed
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Routine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO routine (id, member_id, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET member_id=excluded.member_id, name=excluded.name`,
		entity.ID, entity.MemberID, entity.Name, storage.FormatStoredTime(entity.CreatedAt))
	if err != nil {
		return err
	}

	// Rewrite the tree
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM routine_exercise WHERE day_id IN (SELECT id FROM routine_day WHERE routine_id = ?)",
		entity.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM routine_day WHERE routine_id = ?", entity.ID); err != nil {
		return err
	}

	for _, d := range entity.Days {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO routine_day (id, routine_id, name, position) VALUES (?, ?, ?, ?)",
			d.ID, entity.ID, d.Name, d.Position); err != nil {
			return err
		}
		for _, e := range d.Exercises {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO routine_exercise (id, day_id, name, series, reps, weight, notes, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				e.ID, d.ID, e.Name, e.Series, e.Reps, e.Weight, e.Notes, e.Position); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Delete removes a Routine and its day and exercise rows.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM routine_exercise WHERE day_id IN (SELECT id FROM routine_day WHERE routine_id = ?)",
		id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM routine_day WHERE routine_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM routine WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
