package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bodysense/internal/modules/history/domain"
	historyout "bodysense/internal/modules/history/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteRunStore struct {
	db *sql.DB
}

func NewSQLiteRunStore(dbPath string) (*SQLiteRunStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteRunStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var _ historyout.RunStore = (*SQLiteRunStore)(nil)

func (s *SQLiteRunStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  exercise_index INTEGER NOT NULL,
  exercise_title TEXT NOT NULL,
  image_side INTEGER NOT NULL,
  positions INTEGER NOT NULL,
  pauses INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  completed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_completed_at ON runs (completed_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

func (s *SQLiteRunStore) Save(ctx context.Context, run domain.Run) error {
	const stmt = `
INSERT INTO runs (id, exercise_index, exercise_title, image_side, positions, pauses, started_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  exercise_index=excluded.exercise_index,
  exercise_title=excluded.exercise_title,
  image_side=excluded.image_side,
  positions=excluded.positions,
  pauses=excluded.pauses,
  started_at=excluded.started_at,
  completed_at=excluded.completed_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		run.ID,
		run.ExerciseIndex,
		run.ExerciseTitle,
		run.ImageSide,
		run.Positions,
		run.Pauses,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// List returns the most recent runs first.
func (s *SQLiteRunStore) List(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, exercise_index, exercise_title, image_side, positions, pauses, started_at, completed_at
FROM runs
ORDER BY completed_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var (
			run                    domain.Run
			startedAt, completedAt string
		)
		if err := rows.Scan(&run.ID, &run.ExerciseIndex, &run.ExerciseTitle, &run.ImageSide, &run.Positions, &run.Pauses, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
		}
		if run.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
			return nil, fmt.Errorf("parse completed_at for %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}
