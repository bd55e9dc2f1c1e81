package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveSplitPlan stores a new active plan and deactivates the user's previous
// one in the same transaction, so at most one plan per user is active.
func (db *DB) SaveSplitPlan(ctx context.Context, plan models.SplitPlan) error {
	sessions, err := json.Marshal(plan.Sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}
	freq, err := json.Marshal(plan.FrequencyMap)
	if err != nil {
		return fmt.Errorf("encoding frequency map: %w", err)
	}
	dist, err := json.Marshal(plan.VolumeDistribution)
	if err != nil {
		return fmt.Errorf("encoding volume distribution: %w", err)
	}

	return db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE split_plans SET active = FALSE, deactivated_at = NOW()
			 WHERE user_id = $1 AND active`,
			plan.UserID); err != nil {
			return fmt.Errorf("deactivating previous plan: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO split_plans (id, user_id, muscle, aggressiveness, cycle_days,
			 sessions, frequency_map, volume_distribution, active, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE,$9)`,
			plan.ID, plan.UserID, string(plan.Muscle), plan.Aggressiveness, plan.CycleDays,
			sessions, freq, dist, plan.CreatedAt); err != nil {
			return fmt.Errorf("inserting split plan: %w", err)
		}
		return nil
	})
}

// ActiveSplitPlan returns the user's active plan or ErrNotFound.
func (db *DB) ActiveSplitPlan(ctx context.Context, userID int) (*models.SplitPlan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+splitPlanColumns+` FROM split_plans WHERE user_id = $1 AND active`,
		userID)
	return scanSplitPlan(row)
}

// GetSplitPlan returns a plan by ID, active or not, or ErrNotFound.
func (db *DB) GetSplitPlan(ctx context.Context, id uuid.UUID, userID int) (*models.SplitPlan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+splitPlanColumns+` FROM split_plans WHERE id = $1 AND user_id = $2`,
		id, userID)
	return scanSplitPlan(row)
}

const splitPlanColumns = `id, user_id, muscle, aggressiveness, cycle_days, sessions,
	frequency_map, volume_distribution, active, created_at, deactivated_at`

func scanSplitPlan(row pgx.Row) (*models.SplitPlan, error) {
	var p models.SplitPlan
	var muscle string
	var sessions, freq, dist []byte
	err := row.Scan(&p.ID, &p.UserID, &muscle, &p.Aggressiveness, &p.CycleDays,
		&sessions, &freq, &dist, &p.Active, &p.CreatedAt, &p.DeactivatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning split plan: %w", err)
	}
	p.Muscle = models.MuscleGroup(muscle)
	if err := json.Unmarshal(sessions, &p.Sessions); err != nil {
		return nil, fmt.Errorf("decoding sessions: %w", err)
	}
	if err := json.Unmarshal(freq, &p.FrequencyMap); err != nil {
		return nil, fmt.Errorf("decoding frequency map: %w", err)
	}
	if err := json.Unmarshal(dist, &p.VolumeDistribution); err != nil {
		return nil, fmt.Errorf("decoding volume distribution: %w", err)
	}
	return &p, nil
}
