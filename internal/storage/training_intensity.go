package storage

import (
	"context"
	"fmt"
	"time"
)

// RIRBand holds the count and percentage of sets in a specific RIR range.
type RIRBand struct {
	Band     string  `json:"band"`
	RIRRange string  `json:"rir_range"`
	Sets     int     `json:"sets"`
	Pct      float64 `json:"pct"`
}

// TrainingIntensity summarizes effort over a window. It feeds the deload
// assessment's low-RIR trigger.
type TrainingIntensity struct {
	RIRDistribution []RIRBand `json:"rir_distribution"`
	FailureRatePct  float64   `json:"failure_rate_pct"`
	TotalSets       int       `json:"total_sets"`
	TrackedSets     int       `json:"tracked_sets"`
	AverageRIR      *float64  `json:"average_rir,omitempty"`
}

// GetTrainingIntensity returns the RIR distribution, failure rate and average
// RIR of working sets. RIR -1 is the Alpha Progression "untracked" sentinel.
func (db *DB) GetTrainingIntensity(ctx context.Context, start, end time.Time, userID int) (*TrainingIntensity, error) {
	result := &TrainingIntensity{}

	rows, err := db.Pool.Query(ctx,
		`SELECT band, rir_range, sets FROM (
			SELECT
				CASE
					WHEN rir < 0 THEN 'untracked'
					WHEN rir <= 0 THEN 'failure'
					WHEN rir <= 1 THEN 'near_failure'
					WHEN rir <= 2 THEN 'moderate'
					WHEN rir <= 3 THEN 'easy'
					ELSE 'very_easy'
				END AS band,
				CASE
					WHEN rir < 0 THEN 'untracked'
					WHEN rir <= 0 THEN '0'
					WHEN rir <= 1 THEN '0.5-1'
					WHEN rir <= 2 THEN '1.5-2'
					WHEN rir <= 3 THEN '2.5-3'
					ELSE '>3'
				END AS rir_range,
				COUNT(*)::int AS sets
			FROM workout_sets
			WHERE completed_at >= $1 AND completed_at < $2
				AND user_id = $3
				AND NOT is_warmup AND NOT is_skipped
			GROUP BY band, rir_range
		) sub
		ORDER BY CASE band
			WHEN 'failure' THEN 1
			WHEN 'near_failure' THEN 2
			WHEN 'moderate' THEN 3
			WHEN 'easy' THEN 4
			WHEN 'very_easy' THEN 5
			WHEN 'untracked' THEN 6
		END`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying RIR distribution: %w", err)
	}
	defer rows.Close()

	var failureSets int
	for rows.Next() {
		var b RIRBand
		if err := rows.Scan(&b.Band, &b.RIRRange, &b.Sets); err != nil {
			return nil, fmt.Errorf("scanning RIR band: %w", err)
		}
		result.TotalSets += b.Sets
		if b.Band != "untracked" {
			result.TrackedSets += b.Sets
		}
		if b.Band == "failure" || b.Band == "near_failure" {
			failureSets += b.Sets
		}
		result.RIRDistribution = append(result.RIRDistribution, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result.RIRDistribution {
		if result.TotalSets > 0 {
			result.RIRDistribution[i].Pct = float64(result.RIRDistribution[i].Sets) / float64(result.TotalSets) * 100
		}
	}
	if result.TrackedSets > 0 {
		result.FailureRatePct = float64(failureSets) / float64(result.TrackedSets) * 100
	}

	avg, err := db.AverageRIR(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	result.AverageRIR = avg

	return result, nil
}

// AverageRIR returns the mean logged RIR of working sets in the window, or
// nil when none were tracked.
func (db *DB) AverageRIR(ctx context.Context, userID int, start, end time.Time) (*float64, error) {
	var avg *float64
	err := db.Pool.QueryRow(ctx,
		`SELECT AVG(rir) FROM workout_sets
		 WHERE completed_at >= $1 AND completed_at < $2 AND user_id = $3
		   AND NOT is_warmup AND NOT is_skipped AND rir >= 0`,
		start, end, userID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("querying average RIR: %w", err)
	}
	return avg, nil
}
