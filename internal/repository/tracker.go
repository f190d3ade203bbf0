package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"student-coach/internal/domain"
)

// TrackerStore persists the dashboard resources: todos, sleep, exercise,
// wellness, and goals.
type TrackerStore struct {
	db *sql.DB
}

// NewTrackerStore creates a TrackerStore over an open database.
func NewTrackerStore(db *sql.DB) (*TrackerStore, error) {
	if db == nil {
		return nil, errors.New("repository: db must not be nil")
	}
	return &TrackerStore{db: db}, nil
}

// ---------------------------------------------------------------------------
// Todos
// ---------------------------------------------------------------------------

func (s *TrackerStore) CreateTodo(ctx context.Context, item domain.TodoItem) (domain.TodoItem, error) {
	if item.Category == "" {
		item.Category = "today"
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todo_list (title, description, category, completed) VALUES (?, ?, ?, ?)`,
		item.Title, item.Description, item.Category, item.Completed,
	)
	if err != nil {
		return domain.TodoItem{}, fmt.Errorf("repository: CreateTodo: %w", err)
	}
	item.ID, err = res.LastInsertId()
	if err != nil {
		return domain.TodoItem{}, fmt.Errorf("repository: CreateTodo id: %w", err)
	}
	return item, nil
}

func (s *TrackerStore) ListTodos(ctx context.Context) ([]domain.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, category, completed FROM todo_list ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: ListTodos: %w", err)
	}
	defer rows.Close()

	items := []domain.TodoItem{}
	for rows.Next() {
		var (
			item domain.TodoItem
			desc sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &desc, &item.Category, &item.Completed); err != nil {
			return nil, fmt.Errorf("repository: ListTodos scan: %w", err)
		}
		item.Description = desc.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateTodo applies a partial update and returns the stored item.
func (s *TrackerStore) UpdateTodo(ctx context.Context, id int64, upd domain.TodoUpdate) (domain.TodoItem, error) {
	if upd.Completed != nil {
		res, err := s.db.ExecContext(ctx,
			`UPDATE todo_list SET completed = ? WHERE id = ?`, *upd.Completed, id,
		)
		if err != nil {
			return domain.TodoItem{}, fmt.Errorf("repository: UpdateTodo: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.TodoItem{}, ErrNotFound
		}
	}
	return s.getTodo(ctx, id)
}

func (s *TrackerStore) getTodo(ctx context.Context, id int64) (domain.TodoItem, error) {
	var (
		item domain.TodoItem
		desc sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, completed FROM todo_list WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &desc, &item.Category, &item.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TodoItem{}, ErrNotFound
	}
	if err != nil {
		return domain.TodoItem{}, fmt.Errorf("repository: getTodo: %w", err)
	}
	item.Description = desc.String
	return item, nil
}

func (s *TrackerStore) DeleteTodo(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "todo_list", "DeleteTodo", id)
}

// ---------------------------------------------------------------------------
// Sleep
// ---------------------------------------------------------------------------

func (s *TrackerStore) CreateSleep(ctx context.Context, entry domain.SleepEntry) (domain.SleepEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sleep_entries (date, hours, notes) VALUES (?, ?, ?)`,
		entry.Date, entry.Hours, entry.Notes,
	)
	if err != nil {
		return domain.SleepEntry{}, fmt.Errorf("repository: CreateSleep: %w", err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return domain.SleepEntry{}, fmt.Errorf("repository: CreateSleep id: %w", err)
	}
	return entry, nil
}

// ListSleep returns sleep entries newest day first.
func (s *TrackerStore) ListSleep(ctx context.Context) ([]domain.SleepEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, hours, notes FROM sleep_entries ORDER BY date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: ListSleep: %w", err)
	}
	defer rows.Close()

	entries := []domain.SleepEntry{}
	for rows.Next() {
		var (
			e     domain.SleepEntry
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Hours, &notes); err != nil {
			return nil, fmt.Errorf("repository: ListSleep scan: %w", err)
		}
		e.Notes = notes.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SleepWeeklyAverage computes the average hours over the seven days before
// now. Days with no entry do not count toward the denominator; no entries at
// all yields a zero average, not an error.
func (s *TrackerStore) SleepWeeklyAverage(ctx context.Context, now time.Time) (domain.WeeklyAverage, error) {
	today := now.UTC().Format("2006-01-02")
	weekAgo := now.UTC().AddDate(0, 0, -7).Format("2006-01-02")

	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(hours) FROM sleep_entries WHERE date >= ?`, weekAgo,
	).Scan(&avg)
	if err != nil {
		return domain.WeeklyAverage{}, fmt.Errorf("repository: SleepWeeklyAverage: %w", err)
	}
	return domain.WeeklyAverage{
		WeekStart:    weekAgo,
		WeekEnd:      today,
		AverageHours: math.Round(avg.Float64*100) / 100,
	}, nil
}

func (s *TrackerStore) DeleteSleep(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "sleep_entries", "DeleteSleep", id)
}

// ---------------------------------------------------------------------------
// Exercise
// ---------------------------------------------------------------------------

func (s *TrackerStore) CreateExercise(ctx context.Context, entry domain.ExerciseEntry) (domain.ExerciseEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise_entries (date, title, duration, intensity, notes) VALUES (?, ?, ?, ?, ?)`,
		entry.Date, entry.Title, entry.Duration, entry.Intensity, entry.Notes,
	)
	if err != nil {
		return domain.ExerciseEntry{}, fmt.Errorf("repository: CreateExercise: %w", err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return domain.ExerciseEntry{}, fmt.Errorf("repository: CreateExercise id: %w", err)
	}
	return entry, nil
}

// ListExercise returns exercise entries newest day first.
func (s *TrackerStore) ListExercise(ctx context.Context) ([]domain.ExerciseEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, title, duration, intensity, notes
		 FROM exercise_entries ORDER BY date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: ListExercise: %w", err)
	}
	defer rows.Close()

	entries := []domain.ExerciseEntry{}
	for rows.Next() {
		var (
			e                domain.ExerciseEntry
			intensity, notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Duration, &intensity, &notes); err != nil {
			return nil, fmt.Errorf("repository: ListExercise scan: %w", err)
		}
		e.Intensity = intensity.String
		e.Notes = notes.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *TrackerStore) DeleteExercise(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "exercise_entries", "DeleteExercise", id)
}

// ---------------------------------------------------------------------------
// Wellness
// ---------------------------------------------------------------------------

func (s *TrackerStore) CreateWellness(ctx context.Context, entry domain.WellnessEntry) (domain.WellnessEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO wellness_entries (date, mood, energy, notes) VALUES (?, ?, ?, ?)`,
		entry.Date, entry.Mood, entry.Energy, entry.Notes,
	)
	if err != nil {
		return domain.WellnessEntry{}, fmt.Errorf("repository: CreateWellness: %w", err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return domain.WellnessEntry{}, fmt.Errorf("repository: CreateWellness id: %w", err)
	}
	return entry, nil
}

// ListWellness returns wellness entries newest day first.
func (s *TrackerStore) ListWellness(ctx context.Context) ([]domain.WellnessEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, mood, energy, notes FROM wellness_entries ORDER BY date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: ListWellness: %w", err)
	}
	defer rows.Close()

	entries := []domain.WellnessEntry{}
	for rows.Next() {
		var (
			e     domain.WellnessEntry
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Mood, &e.Energy, &notes); err != nil {
			return nil, fmt.Errorf("repository: ListWellness scan: %w", err)
		}
		e.Notes = notes.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *TrackerStore) DeleteWellness(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "wellness_entries", "DeleteWellness", id)
}

// ---------------------------------------------------------------------------
// Goals
// ---------------------------------------------------------------------------

func (s *TrackerStore) CreateGoal(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	goal.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (title, description, target_date, completed, created_at) VALUES (?, ?, ?, ?, ?)`,
		goal.Title, goal.Description, goal.TargetDate, goal.Completed, goal.CreatedAt,
	)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("repository: CreateGoal: %w", err)
	}
	goal.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Goal{}, fmt.Errorf("repository: CreateGoal id: %w", err)
	}
	return goal, nil
}

// ListGoals returns goals newest first.
func (s *TrackerStore) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, target_date, completed, created_at
		 FROM goals ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: ListGoals: %w", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		var (
			g            domain.Goal
			desc, target sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Title, &desc, &target, &g.Completed, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: ListGoals scan: %w", err)
		}
		g.Description = desc.String
		g.TargetDate = target.String
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoal replaces the mutable fields of a goal and returns the stored row.
func (s *TrackerStore) UpdateGoal(ctx context.Context, id int64, goal domain.Goal) (domain.Goal, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET title = ?, description = ?, target_date = ?, completed = ? WHERE id = ?`,
		goal.Title, goal.Description, goal.TargetDate, goal.Completed, id,
	)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("repository: UpdateGoal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Goal{}, ErrNotFound
	}

	var (
		g            domain.Goal
		desc, target sql.NullString
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, title, description, target_date, completed, created_at FROM goals WHERE id = ?`, id,
	).Scan(&g.ID, &g.Title, &desc, &target, &g.Completed, &g.CreatedAt)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("repository: UpdateGoal read back: %w", err)
	}
	g.Description = desc.String
	g.TargetDate = target.String
	return g, nil
}

func (s *TrackerStore) DeleteGoal(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "goals", "DeleteGoal", id)
}

func (s *TrackerStore) deleteByID(ctx context.Context, table, op string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repository: %s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
