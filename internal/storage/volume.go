package storage

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/volume"
	"github.com/jackc/pgx/v5"
)

// WeeklyMuscleVolume counts working sets per muscle between start and end,
// crediting each set to every muscle its exercise maps to. Fractional credit
// is summed and rounded per muscle.
func (db *DB) WeeklyMuscleVolume(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup]int, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT em.muscle, COALESCE(SUM(em.set_credit), 0)
		 FROM workout_sets ws
		 JOIN exercise_muscles em ON em.exercise_name = ws.exercise_name
		 WHERE ws.user_id = $1 AND ws.completed_at >= $2 AND ws.completed_at < $3
		   AND NOT ws.is_warmup AND NOT ws.is_skipped
		 GROUP BY em.muscle`,
		userID, start, end)
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

// SetExerciseMuscles replaces the muscle mapping for an exercise.
func (db *DB) SetExerciseMuscles(ctx context.Context, exercise string, credit map[models.MuscleGroup]float64) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM exercise_muscles WHERE exercise_name = $1`, exercise); err != nil {
			return fmt.Errorf("clearing muscles for %s: %w", exercise, err)
		}
		for muscle, c := range credit {
			if _, err := tx.Exec(ctx,
				`INSERT INTO exercise_muscles (exercise_name, muscle, set_credit) VALUES ($1, $2, $3)`,
				exercise, string(muscle), c); err != nil {
				return fmt.Errorf("mapping %s to %s: %w", exercise, muscle, err)
			}
		}
		return nil
	})
}

// VolumeLandmarks loads the landmark table for a training approach.
// Returns ErrNotFound when the approach has no rows.
func (db *DB) VolumeLandmarks(ctx context.Context, approach string) (map[models.MuscleGroup]volume.Landmark, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT muscle, mev, mav, mrv FROM volume_landmarks WHERE approach = $1`,
		approach)
	if err != nil {
		return nil, fmt.Errorf("querying landmarks for %s: %w", approach, err)
	}
	defer rows.Close()

	result := make(map[models.MuscleGroup]volume.Landmark)
	for rows.Next() {
		var l volume.Landmark
		var muscle string
		if err := rows.Scan(&muscle, &l.MEV, &l.MAV, &l.MRV); err != nil {
			return nil, fmt.Errorf("scanning landmark: %w", err)
		}
		l.Muscle = models.MuscleGroup(muscle)
		result[l.Muscle] = l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("landmarks for approach %q: %w", approach, ErrNotFound)
	}
	return result, nil
}
