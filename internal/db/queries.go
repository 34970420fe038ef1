package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.TendError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Tasks ---

// InsertTask stores a new task.
func InsertTask(ctx context.Context, db *sql.DB, t *record.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, area_id, entry_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, toNullString(t.Description), t.Status,
		toNullString(t.AreaID), toNullString(t.EntryID), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return errors.NewPersistence("task.insert", err)
	}
	return nil
}

// GetTaskByID retrieves a task by its ULID.
func GetTaskByID(ctx context.Context, db *sql.DB, id string) (*record.Task, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, title, description, status, area_id, entry_id, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	t := &record.Task{}
	var description, areaID, entryID sql.NullString
	err := row.Scan(&t.ID, &t.Title, &description, &t.Status, &areaID, &entryID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("task", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	t.Description = fromNullString(description)
	t.AreaID = fromNullString(areaID)
	t.EntryID = fromNullString(entryID)
	return t, nil
}

// ListTasks returns tasks, optionally filtered by status and creation time,
// newest first.
func ListTasks(ctx context.Context, db *sql.DB, status *string, since *int64, limit, offset int) ([]record.Task, error) {
	query := `
		SELECT id, title, description, status, area_id, entry_id, created_at, updated_at
		FROM tasks WHERE 1=1`
	args := []any{}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	if since != nil {
		query += " AND created_at >= ?"
		args = append(args, *since)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var tasks []record.Task
	for rows.Next() {
		var t record.Task
		var description, areaID, entryID sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &description, &t.Status, &areaID, &entryID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		t.Description = fromNullString(description)
		t.AreaID = fromNullString(areaID)
		t.EntryID = fromNullString(entryID)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return tasks, nil
}

// UpdateTaskStatus sets the status and updated_at for a task.
func UpdateTaskStatus(ctx context.Context, db *sql.DB, id, status string, now int64) error {
	res, err := db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, status, now, id)
	if err != nil {
		return errors.NewPersistence("task.update_status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("task", id)
	}
	return nil
}

// DeleteTask removes a task.
func DeleteTask(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return errors.NewPersistence("task.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("task", id)
	}
	return nil
}

// --- Goals ---

// InsertGoal stores a new goal.
func InsertGoal(ctx context.Context, db *sql.DB, g *record.Goal) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO goals (id, title, description, area_id, entry_id, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, toNullString(g.Description), toNullString(g.AreaID),
		toNullString(g.EntryID), boolToInt(g.Active), g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return errors.NewPersistence("goal.insert", err)
	}
	return nil
}

// GetGoalByID retrieves a goal by its ULID.
func GetGoalByID(ctx context.Context, db *sql.DB, id string) (*record.Goal, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, title, description, area_id, entry_id, active, created_at, updated_at
		FROM goals WHERE id = ?`, id)

	g := &record.Goal{}
	var description, areaID, entryID sql.NullString
	var active int
	err := row.Scan(&g.ID, &g.Title, &description, &areaID, &entryID, &active, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("goal", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	g.Description = fromNullString(description)
	g.AreaID = fromNullString(areaID)
	g.EntryID = fromNullString(entryID)
	g.Active = active != 0
	return g, nil
}

// ListGoals returns goals, newest first. If activeOnly is true, inactive
// goals are skipped.
func ListGoals(ctx context.Context, db *sql.DB, activeOnly bool, limit, offset int) ([]record.Goal, error) {
	query := `
		SELECT id, title, description, area_id, entry_id, active, created_at, updated_at
		FROM goals`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var goals []record.Goal
	for rows.Next() {
		var g record.Goal
		var description, areaID, entryID sql.NullString
		var active int
		if err := rows.Scan(&g.ID, &g.Title, &description, &areaID, &entryID, &active, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		g.Description = fromNullString(description)
		g.AreaID = fromNullString(areaID)
		g.EntryID = fromNullString(entryID)
		g.Active = active != 0
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return goals, nil
}

// --- Activities ---

// InsertActivity stores a new activity.
func InsertActivity(ctx context.Context, db *sql.DB, a *record.Activity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (id, title, duration_minutes, notes, energy, area_id, entry_id, occurred_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, toNullInt(a.DurationMinutes), toNullString(a.Notes),
		toNullString(a.Energy), toNullString(a.AreaID), toNullString(a.EntryID),
		a.OccurredAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return errors.NewPersistence("activity.insert", err)
	}
	return nil
}

// ListActivities returns activities, optionally restricted to those that
// occurred at or after since, most recent first.
func ListActivities(ctx context.Context, db *sql.DB, since *int64, limit, offset int) ([]record.Activity, error) {
	query := `
		SELECT id, title, duration_minutes, notes, energy, area_id, entry_id, occurred_at, created_at, updated_at
		FROM activities`
	args := []any{}
	if since != nil {
		query += " WHERE occurred_at >= ?"
		args = append(args, *since)
	}
	query += " ORDER BY occurred_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var activities []record.Activity
	for rows.Next() {
		var a record.Activity
		var duration sql.NullInt64
		var notes, energy, areaID, entryID sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &duration, &notes, &energy, &areaID, &entryID, &a.OccurredAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		a.DurationMinutes = fromNullInt(duration)
		a.Notes = fromNullString(notes)
		a.Energy = fromNullString(energy)
		a.AreaID = fromNullString(areaID)
		a.EntryID = fromNullString(entryID)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return activities, nil
}

// --- Life areas ---

// InsertArea stores a new life area. Names are unique by normalized form.
func InsertArea(ctx context.Context, db *sql.DB, a *record.LifeArea) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO areas (id, name_raw, name_norm, created_at)
		VALUES (?, ?, ?, ?)`,
		a.ID, a.NameRaw, a.NameNorm, a.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewPersistence("area.insert", err)
	}
	return nil
}

// ListAreas returns all life areas in creation order.
func ListAreas(ctx context.Context, db *sql.DB) ([]record.LifeArea, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name_raw, name_norm, created_at
		FROM areas ORDER BY created_at ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var areas []record.LifeArea
	for rows.Next() {
		var a record.LifeArea
		if err := rows.Scan(&a.ID, &a.NameRaw, &a.NameNorm, &a.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return areas, nil
}

// --- Journal entries ---

// InsertEntry stores a new journal entry.
func InsertEntry(ctx context.Context, db *sql.DB, e *record.JournalEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, entry_text, mood, created_at)
		VALUES (?, ?, ?, ?)`,
		e.ID, e.Text, toNullString(e.Mood), e.CreatedAt,
	)
	if err != nil {
		return errors.NewPersistence("journal.insert", err)
	}
	return nil
}

// GetEntryByID retrieves a journal entry by its ULID.
func GetEntryByID(ctx context.Context, db *sql.DB, id string) (*record.JournalEntry, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, entry_text, mood, created_at
		FROM journal_entries WHERE id = ?`, id)

	e := &record.JournalEntry{}
	var mood sql.NullString
	err := row.Scan(&e.ID, &e.Text, &mood, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("journal entry", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	e.Mood = fromNullString(mood)
	return e, nil
}

// ListEntries returns journal entries, newest first.
func ListEntries(ctx context.Context, db *sql.DB, since *int64, limit, offset int) ([]record.JournalEntry, error) {
	query := `
		SELECT id, entry_text, mood, created_at
		FROM journal_entries`
	args := []any{}
	if since != nil {
		query += " WHERE created_at >= ?"
		args = append(args, *since)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var entries []record.JournalEntry
	for rows.Next() {
		var e record.JournalEntry
		var mood sql.NullString
		if err := rows.Scan(&e.ID, &e.Text, &mood, &e.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		e.Mood = fromNullString(mood)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return entries, nil
}

// --- Memory vectors ---

// InsertMemory stores a memory vector. Vectors are JSON-encoded at rest.
func InsertMemory(ctx context.Context, db *sql.DB, m *record.MemoryVector) error {
	vectorJSON, err := json.Marshal(m.Vector)
	if err != nil {
		return errors.NewInternal(err)
	}

	var metaJSON sql.NullString
	if len(m.Meta) > 0 {
		data, err := json.Marshal(m.Meta)
		if err != nil {
			return errors.NewInternal(err)
		}
		metaJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO memories (id, memory_text, vector_json, meta_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Text, string(vectorJSON), metaJSON, m.CreatedAt,
	)
	if err != nil {
		return errors.NewPersistence("memory.insert", err)
	}
	return nil
}

// ListMemories returns every stored memory vector in insertion order.
// Recall ranks the full corpus, so there is no pagination here.
func ListMemories(ctx context.Context, db *sql.DB) ([]record.MemoryVector, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, memory_text, vector_json, meta_json, created_at
		FROM memories ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var memories []record.MemoryVector
	for rows.Next() {
		var m record.MemoryVector
		var vectorJSON string
		var metaJSON sql.NullString
		if err := rows.Scan(&m.ID, &m.Text, &vectorJSON, &metaJSON, &m.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := json.Unmarshal([]byte(vectorJSON), &m.Vector); err != nil {
			return nil, errors.NewInternal(err)
		}
		if metaJSON.Valid {
			if err := json.Unmarshal([]byte(metaJSON.String), &m.Meta); err != nil {
				return nil, errors.NewInternal(err)
			}
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return memories, nil
}

// --- Scan helpers ---

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
