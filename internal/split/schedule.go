// Package split builds cyclic training splits around a specialization muscle.
package split

import (
	"slices"

	"github.com/claude/liftplan/internal/models"
)

// maxSpecializationFrequency caps how many primary days a cycle gets by default.
const maxSpecializationFrequency = 4

// maxWeeklyFrequency keeps a cycle at 14 days or fewer.
const maxWeeklyFrequency = 13

// Config tunes schedule generation. The zero value uses the defaults.
type Config struct {
	// TargetFrequency overrides the number of specialization days per cycle.
	// Values <= 0 mean "derive from weekly frequency".
	TargetFrequency int
}

// Schedule is a day-by-day cycle of workout types.
type Schedule struct {
	WorkoutTypes            []models.WorkoutType `json:"workout_types"`
	CycleDays               int                  `json:"cycle_days"`
	SpecializationFrequency int                  `json:"specialization_frequency"`
}

var muscleWorkoutTypes = map[models.MuscleGroup][]models.WorkoutType{
	models.Chest:      {models.WorkoutChest, models.WorkoutPush},
	models.Back:       {models.WorkoutBack, models.WorkoutPull},
	models.Lats:       {models.WorkoutBack, models.WorkoutPull},
	models.Traps:      {models.WorkoutBack, models.WorkoutPull},
	models.Shoulders:  {models.WorkoutShoulders, models.WorkoutPush},
	models.SideDelts:  {models.WorkoutShoulders},
	models.RearDelts:  {models.WorkoutShoulders, models.WorkoutPull},
	models.Biceps:     {models.WorkoutArms, models.WorkoutPull},
	models.Triceps:    {models.WorkoutArms, models.WorkoutPush},
	models.Forearms:   {models.WorkoutArms},
	models.Quads:      {models.WorkoutLegs, models.WorkoutLower},
	models.Hamstrings: {models.WorkoutLegs, models.WorkoutLower},
	models.Glutes:     {models.WorkoutLegs, models.WorkoutLower},
	models.Calves:     {models.WorkoutLegs},
	models.Abs:        {models.WorkoutCore},
}

// Complementary day rotations, indexed by day % len(rotation).
var rotations = map[models.BodyFocus][]models.WorkoutType{
	models.FocusUpper:    {models.WorkoutLower, models.WorkoutFullBody},
	models.FocusLower:    {models.WorkoutUpper, models.WorkoutPush, models.WorkoutPull},
	models.FocusCoreArms: {models.WorkoutLower, models.WorkoutUpper, models.WorkoutFullBody},
}

// WorkoutTypesForMuscle returns the workout types that train a muscle, primary
// first. Unknown muscles fall back to a full-body day.
func WorkoutTypesForMuscle(muscle models.MuscleGroup) []models.WorkoutType {
	if types, ok := muscleWorkoutTypes[muscle]; ok {
		return slices.Clone(types)
	}
	return []models.WorkoutType{models.WorkoutFullBody}
}

// GenerateSchedule lays out one cycle of weeklyFrequency+1 days. Primary days
// for the muscle are spaced evenly; remaining days rotate through
// complementary types and the last day is always rest.
func GenerateSchedule(muscle models.MuscleGroup, weeklyFrequency int, cfg Config) Schedule {
	weeklyFrequency = min(max(weeklyFrequency, 1), maxWeeklyFrequency)
	cycleDays := weeklyFrequency + 1

	target := cfg.TargetFrequency
	if target <= 0 {
		target = min(weeklyFrequency-1, maxSpecializationFrequency)
	} else {
		target = min(target, weeklyFrequency)
	}
	if target <= 0 {
		target = 1
	}
	interval := cycleDays / target

	primary := WorkoutTypesForMuscle(muscle)[0]
	rotation := rotations[models.FocusOf(muscle)]

	types := make([]models.WorkoutType, cycleDays)
	placed := 0
	for day := range cycleDays {
		switch {
		case day == cycleDays-1:
			types[day] = models.WorkoutRest
		case day%interval == 0 && placed < target:
			types[day] = primary
			placed++
		default:
			types[day] = rotation[day%len(rotation)]
		}
	}

	return Schedule{
		WorkoutTypes:            types,
		CycleDays:               cycleDays,
		SpecializationFrequency: placed,
	}
}
