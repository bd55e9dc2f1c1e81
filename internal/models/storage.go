package models

import (
	"time"

	"github.com/google/uuid"
)

// SetType distinguishes sets that count toward volume from warmups.
type SetType string

const (
	SetWorking SetType = "working"
	SetWarmup  SetType = "warmup"
)

// SetRecord is one completed set as read from the history store.
// RIR is nil when the lifter did not log it; a negative value is the
// Alpha Progression "untracked" sentinel and means the same thing.
type SetRecord struct {
	ExerciseName string    `json:"exercise_name"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	RIR          *float64  `json:"rir,omitempty"`
	SetType      SetType   `json:"set_type"`
	Skipped      bool      `json:"skipped"`
	CompletedAt  time.Time `json:"completed_at"`
}

// IsWorking reports whether the set counts toward training volume.
func (s SetRecord) IsWorking() bool {
	return s.SetType != SetWarmup && !s.Skipped
}

// WorkoutSetRow is a row for the workout_sets table.
type WorkoutSetRow struct {
	UserID           int
	SessionName      string
	SessionDate      time.Time
	SessionDuration  string
	ExerciseNumber   int
	ExerciseName     string
	Equipment        string
	TargetReps       int
	Technique        string
	IsWarmup         bool
	IsSkipped        bool
	SetNumber        int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	CompletedAt      time.Time
}

// ToSetRecord converts a stored row into the engine's history record.
func (r WorkoutSetRow) ToSetRecord() SetRecord {
	rec := SetRecord{
		ExerciseName: r.ExerciseName,
		Weight:       r.WeightKg,
		Reps:         r.Reps,
		SetType:      SetWorking,
		Skipped:      r.IsSkipped,
		CompletedAt:  r.CompletedAt,
	}
	if r.IsWarmup {
		rec.SetType = SetWarmup
	}
	if r.RIR >= 0 {
		rir := r.RIR
		rec.RIR = &rir
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = r.SessionDate
	}
	return rec
}

// SplitPlan is a generated training split. Plans are deactivated, never
// deleted, when a newer plan supersedes them.
type SplitPlan struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             int                 `json:"user_id"`
	Muscle             MuscleGroup         `json:"muscle"`
	Aggressiveness     string              `json:"aggressiveness"`
	CycleDays          int                 `json:"cycle_days"`
	Sessions           []WorkoutType       `json:"sessions"`
	FrequencyMap       map[MuscleGroup]int `json:"frequency_map"`
	VolumeDistribution map[MuscleGroup]int `json:"volume_distribution"`
	Active             bool                `json:"active"`
	CreatedAt          time.Time           `json:"created_at"`
	DeactivatedAt      *time.Time          `json:"deactivated_at,omitempty"`
}
