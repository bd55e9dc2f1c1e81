// Package localstore keeps set history in a local SQLite file for offline use.
package localstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftplan/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS workout_sets (
	user_id            INTEGER NOT NULL,
	session_name       TEXT NOT NULL,
	session_date       INTEGER NOT NULL,
	exercise_number    INTEGER NOT NULL,
	exercise_name      TEXT NOT NULL,
	equipment          TEXT NOT NULL DEFAULT '',
	target_reps        INTEGER NOT NULL DEFAULT 0,
	technique          TEXT NOT NULL DEFAULT '',
	is_warmup          INTEGER NOT NULL DEFAULT 0,
	is_skipped         INTEGER NOT NULL DEFAULT 0,
	set_number         INTEGER NOT NULL,
	weight_kg          REAL NOT NULL DEFAULT 0,
	reps               INTEGER NOT NULL DEFAULT 0,
	rir                REAL NOT NULL DEFAULT -1,
	completed_at       INTEGER NOT NULL,
	UNIQUE (user_id, session_date, exercise_number, is_warmup, set_number)
);
CREATE INDEX IF NOT EXISTS workout_sets_exercise_idx ON workout_sets (user_id, exercise_name, completed_at);
CREATE TABLE IF NOT EXISTS exercise_muscles (
	exercise_name TEXT NOT NULL,
	muscle        TEXT NOT NULL,
	set_credit    REAL NOT NULL DEFAULT 1,
	PRIMARY KEY (exercise_name, muscle)
);
CREATE TABLE IF NOT EXISTS imported_files (
	path        TEXT PRIMARY KEY,
	size        INTEGER NOT NULL,
	hash        TEXT NOT NULL,
	imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Store is a SQLite-backed set history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dir/liftplan.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "liftplan.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between concurrent statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertWorkoutSets stores set rows, skipping duplicates. Returns count inserted.
func (s *Store) InsertWorkoutSets(ctx context.Context, rows []models.WorkoutSetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO workout_sets (user_id, session_name, session_date,
		 exercise_number, exercise_name, equipment, target_reps, technique, is_warmup,
		 is_skipped, set_number, weight_kg, reps, rir, completed_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range rows {
		completed := r.CompletedAt
		if completed.IsZero() {
			completed = r.SessionDate
		}
		res, err := stmt.ExecContext(ctx, r.UserID, r.SessionName, r.SessionDate.Unix(),
			r.ExerciseNumber, r.ExerciseName, r.Equipment, r.TargetReps, r.Technique,
			r.IsWarmup, r.IsSkipped, r.SetNumber, r.WeightKg, r.Reps, r.RIR, completed.Unix())
		if err != nil {
			return 0, fmt.Errorf("inserting set %s #%d: %w", r.ExerciseName, r.SetNumber, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sets: %w", err)
	}
	return inserted, nil
}

// DeleteWorkoutSets removes every set of one session so it can be re-imported.
func (s *Store) DeleteWorkoutSets(ctx context.Context, userID int, sessionDate time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM workout_sets WHERE user_id = ? AND session_date = ?`,
		userID, sessionDate.Unix())
	if err != nil {
		return 0, fmt.Errorf("deleting workout sets: %w", err)
	}
	return res.RowsAffected()
}

// RecentWorkingSets returns the latest working sets for an exercise, newest first.
func (s *Store) RecentWorkingSets(ctx context.Context, userID int, exercise string, limit int) ([]models.SetRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets
		 WHERE user_id = ? AND exercise_name = ? AND is_warmup = 0 AND is_skipped = 0
		 ORDER BY completed_at DESC, set_number DESC
		 LIMIT ?`,
		userID, exercise, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sets for %s: %w", exercise, err)
	}
	return scanSets(rows)
}

// ExerciseHistory returns every set for an exercise since the given time, oldest first.
func (s *Store) ExerciseHistory(ctx context.Context, userID int, exercise string, since time.Time) ([]models.SetRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets
		 WHERE user_id = ? AND exercise_name = ? AND completed_at >= ?
		 ORDER BY completed_at ASC, is_warmup DESC, set_number ASC`,
		userID, exercise, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", exercise, err)
	}
	return scanSets(rows)
}

// ExerciseNames lists the distinct exercises trained since the given time.
func (s *Store) ExerciseNames(ctx context.Context, userID int, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT exercise_name FROM workout_sets
		 WHERE user_id = ? AND completed_at >= ? AND is_warmup = 0
		 ORDER BY exercise_name`,
		userID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying exercise names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning exercise name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SetExerciseMuscles replaces the muscle mapping for an exercise.
func (s *Store) SetExerciseMuscles(ctx context.Context, exercise string, credit map[models.MuscleGroup]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercise_muscles WHERE exercise_name = ?`, exercise); err != nil {
		return fmt.Errorf("clearing muscles for %s: %w", exercise, err)
	}
	for muscle, c := range credit {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exercise_muscles (exercise_name, muscle, set_credit) VALUES (?, ?, ?)`,
			exercise, string(muscle), c); err != nil {
			return fmt.Errorf("mapping %s to %s: %w", exercise, muscle, err)
		}
	}
	return tx.Commit()
}

// WeeklyMuscleVolume counts working sets per muscle between start and end.
func (s *Store) WeeklyMuscleVolume(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT em.muscle, COALESCE(SUM(em.set_credit), 0)
		 FROM workout_sets ws
		 JOIN exercise_muscles em ON em.exercise_name = ws.exercise_name
		 WHERE ws.user_id = ? AND ws.completed_at >= ? AND ws.completed_at < ?
		   AND ws.is_warmup = 0 AND ws.is_skipped = 0
		 GROUP BY em.muscle`,
		userID, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying muscle volume: %w", err)
	}
	defer rows.Close()

	result := make(map[models.MuscleGroup]int)
	for rows.Next() {
		var muscle string
		var sets float64
		if err := rows.Scan(&muscle, &sets); err != nil {
			return nil, fmt.Errorf("scanning muscle volume: %w", err)
		}
		result[models.MuscleGroup(muscle)] = int(math.Round(sets))
	}
	return result, rows.Err()
}

// AverageRIR returns the mean logged RIR of working sets in the window, or
// nil when none were tracked.
func (s *Store) AverageRIR(ctx context.Context, userID int, start, end time.Time) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(rir) FROM workout_sets
		 WHERE user_id = ? AND completed_at >= ? AND completed_at < ?
		   AND is_warmup = 0 AND is_skipped = 0 AND rir >= 0`,
		userID, start.Unix(), end.Unix()).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("querying average RIR: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

const setColumns = `exercise_name, weight_kg, reps, rir, is_warmup, is_skipped, completed_at`

func scanSets(rows *sql.Rows) ([]models.SetRecord, error) {
	defer rows.Close()

	var result []models.SetRecord
	for rows.Next() {
		var r models.WorkoutSetRow
		var completed int64
		if err := rows.Scan(&r.ExerciseName, &r.WeightKg, &r.Reps, &r.RIR,
			&r.IsWarmup, &r.IsSkipped, &completed); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		r.CompletedAt = time.Unix(completed, 0).UTC()
		result = append(result, r.ToSetRecord())
	}
	return result, rows.Err()
}

// IsImported checks if a file has already been imported with the same size and hash.
func (s *Store) IsImported(path string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM imported_files WHERE path = ? AND size = ? AND hash = ?`,
		path, size, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking import state: %w", err)
	}
	return count > 0, nil
}

// MarkImported records that a file was successfully imported.
func (s *Store) MarkImported(path string, size int64, hash string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO imported_files (path, size, hash) VALUES (?, ?, ?)`,
		path, size, hash,
	)
	if err != nil {
		return fmt.Errorf("recording import of %s: %w", path, err)
	}
	return nil
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
