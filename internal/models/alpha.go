package models

import "time"

// AlphaSession represents a parsed Alpha Progression workout session.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []AlphaExercise
}

// AlphaExercise represents a single exercise within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Technique  string // raw modifier text, e.g. "2 dropsets"
	Sets       []AlphaSet
}

// AlphaSet represents a single set (working or warmup).
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// Rows flattens a session into workout_sets rows for the given user.
// Sets are stamped with the session start time; the export carries no
// per-set timestamps. Working sets logged with zero reps were skipped.
func (s AlphaSession) Rows(userID int) []WorkoutSetRow {
	var rows []WorkoutSetRow
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			rows = append(rows, WorkoutSetRow{
				UserID:           userID,
				SessionName:      s.Name,
				SessionDate:      s.Date,
				SessionDuration:  s.Duration,
				ExerciseNumber:   ex.Number,
				ExerciseName:     ex.Name,
				Equipment:        ex.Equipment,
				TargetReps:       ex.TargetReps,
				Technique:        ex.Technique,
				IsWarmup:         set.IsWarmup,
				IsSkipped:        !set.IsWarmup && set.Reps == 0,
				SetNumber:        set.Number,
				WeightKg:         set.WeightKg,
				IsBodyweightPlus: set.IsBodyweightPlus,
				Reps:             set.Reps,
				RIR:              set.RIR,
				CompletedAt:      s.Date,
			})
		}
	}
	return rows
}
