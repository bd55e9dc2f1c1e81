package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's training history.
type DataStats struct {
	TotalSets    int64          `json:"total_sets"`
	WorkingSets  int64          `json:"working_sets"`
	Sessions     int64          `json:"sessions"`
	SplitPlans   int64          `json:"split_plans"`
	EarliestData *time.Time     `json:"earliest_data"`
	LatestData   *time.Time     `json:"latest_data"`
	TopExercises []ExerciseStat `json:"top_exercises"`
}

// ExerciseStat holds summary stats for a single exercise.
type ExerciseStat struct {
	Name        string  `json:"name"`
	WorkingSets int64   `json:"working_sets"`
	MaxWeight   float64 `json:"max_weight_kg"`
	TonnageKg   float64 `json:"tonnage_kg"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE NOT is_warmup AND NOT is_skipped),
		        COUNT(DISTINCT session_date),
		        MIN(completed_at),
		        MAX(completed_at)
		 FROM workout_sets WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSets, &stats.WorkingSets, &stats.Sessions, &stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM split_plans WHERE user_id = $1`, userID,
	).Scan(&stats.SplitPlans)
	if err != nil {
		return nil, fmt.Errorf("counting split plans: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_name, COUNT(*), COALESCE(MAX(weight_kg), 0), COALESCE(SUM(weight_kg * reps), 0)
		 FROM workout_sets
		 WHERE user_id = $1 AND NOT is_warmup AND NOT is_skipped
		 GROUP BY exercise_name
		 ORDER BY COUNT(*) DESC, exercise_name
		 LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ExerciseStat
		if err := rows.Scan(&s.Name, &s.WorkingSets, &s.MaxWeight, &s.TonnageKg); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.TopExercises = append(stats.TopExercises, s)
	}
	return stats, rows.Err()
}
