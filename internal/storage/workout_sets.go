package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/jackc/pgx/v5"
)

const workoutSetColumns = 17

// InsertWorkoutSets batch-inserts Alpha Progression set data. Returns count inserted.
func (db *DB) InsertWorkoutSets(ctx context.Context, rows []models.WorkoutSetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO workout_sets (user_id, session_name, session_date, session_duration,
		exercise_number, exercise_name, equipment, target_reps, technique, is_warmup, is_skipped,
		set_number, weight_kg, is_bodyweight_plus, reps, rir, completed_at) VALUES `
	args := make([]any, 0, len(rows)*workoutSetColumns)
	for _, r := range rows {
		completed := r.CompletedAt
		if completed.IsZero() {
			completed = r.SessionDate
		}
		args = append(args, r.UserID, r.SessionName, r.SessionDate, r.SessionDuration,
			r.ExerciseNumber, r.ExerciseName, r.Equipment, r.TargetReps, r.Technique,
			r.IsWarmup, r.IsSkipped, r.SetNumber, r.WeightKg, r.IsBodyweightPlus,
			r.Reps, r.RIR, completed)
	}

	query += placeholders(len(rows), workoutSetColumns) + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting workout sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteWorkoutSets removes every set of one session so it can be re-imported.
func (db *DB) DeleteWorkoutSets(ctx context.Context, userID int, sessionDate time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_sets WHERE user_id = $1 AND session_date = $2`,
		userID, sessionDate)
	if err != nil {
		return 0, fmt.Errorf("deleting workout sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RecentWorkingSets returns the latest working sets for an exercise, newest first.
func (db *DB) RecentWorkingSets(ctx context.Context, userID int, exercise string, limit int) ([]models.SetRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setRecordColumns+`
		 FROM workout_sets
		 WHERE user_id = $1 AND exercise_name = $2 AND NOT is_warmup AND NOT is_skipped
		 ORDER BY completed_at DESC, set_number DESC
		 LIMIT $3`,
		userID, exercise, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sets for %s: %w", exercise, err)
	}
	return scanSetRecords(rows)
}

// ExerciseHistory returns every set logged for an exercise since the given
// time, oldest first, warmups included.
func (db *DB) ExerciseHistory(ctx context.Context, userID int, exercise string, since time.Time) ([]models.SetRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setRecordColumns+`
		 FROM workout_sets
		 WHERE user_id = $1 AND exercise_name = $2 AND completed_at >= $3
		 ORDER BY completed_at ASC, is_warmup DESC, set_number ASC`,
		userID, exercise, since)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", exercise, err)
	}
	return scanSetRecords(rows)
}

// ExerciseNames lists the distinct exercises trained since the given time.
func (db *DB) ExerciseNames(ctx context.Context, userID int, since time.Time) ([]string, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT exercise_name FROM workout_sets
		 WHERE user_id = $1 AND completed_at >= $2 AND NOT is_warmup
		 ORDER BY exercise_name`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("querying exercise names: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

const setRecordColumns = `exercise_name, weight_kg, reps, rir, is_warmup, is_skipped, completed_at`

func scanSetRecords(rows pgx.Rows) ([]models.SetRecord, error) {
	defer rows.Close()

	var result []models.SetRecord
	for rows.Next() {
		var r models.WorkoutSetRow
		if err := rows.Scan(&r.ExerciseName, &r.WeightKg, &r.Reps, &r.RIR,
			&r.IsWarmup, &r.IsSkipped, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, r.ToSetRecord())
	}
	return result, rows.Err()
}
