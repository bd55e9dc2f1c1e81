package split

import (
	"maps"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
)

// Muscles hit by each workout type, used to derive per-muscle frequency.
var workoutMuscles = map[models.WorkoutType][]models.MuscleGroup{
	models.WorkoutChest:     {models.Chest},
	models.WorkoutBack:      {models.Back, models.Lats, models.Traps, models.RearDelts},
	models.WorkoutShoulders: {models.Shoulders, models.SideDelts, models.RearDelts},
	models.WorkoutArms:      {models.Biceps, models.Triceps, models.Forearms},
	models.WorkoutLegs:      {models.Quads, models.Hamstrings, models.Glutes, models.Calves},
	models.WorkoutCore:      {models.Abs},
	models.WorkoutPush:      {models.Chest, models.Shoulders, models.SideDelts, models.Triceps},
	models.WorkoutPull:      {models.Back, models.Lats, models.Traps, models.RearDelts, models.Biceps, models.Forearms},
	models.WorkoutUpper:     {models.Chest, models.Back, models.Lats, models.Shoulders, models.SideDelts, models.Biceps, models.Triceps},
	models.WorkoutLower:     {models.Quads, models.Hamstrings, models.Glutes, models.Calves, models.Abs},
	models.WorkoutFullBody:  {models.Chest, models.Back, models.Shoulders, models.Quads, models.Hamstrings, models.Glutes},
}

// PlanRequest describes a split to build. ID and CreatedAt are supplied by
// the caller so BuildPlan stays deterministic.
type PlanRequest struct {
	ID              uuid.UUID
	UserID          int
	Muscle          models.MuscleGroup
	WeeklyFrequency int
	Aggressiveness  Aggressiveness
	Config          Config
	// BaseVolumes holds weekly maintenance sets per muscle.
	BaseVolumes map[models.MuscleGroup]int
	CreatedAt   time.Time
}

// BuildPlan generates the schedule for a request and derives per-muscle
// frequency and weekly volume from it.
func BuildPlan(req PlanRequest) models.SplitPlan {
	sched := GenerateSchedule(req.Muscle, req.WeeklyFrequency, req.Config)

	freq := make(map[models.MuscleGroup]int)
	for _, wt := range sched.WorkoutTypes {
		for _, m := range workoutMuscles[wt] {
			freq[m]++
		}
	}

	volumes := make(map[models.MuscleGroup]int, len(req.BaseVolumes)+1)
	maps.Copy(volumes, req.BaseVolumes)
	special := CalculateSpecializationVolume(req.BaseVolumes[req.Muscle], sched.SpecializationFrequency, req.Aggressiveness)
	volumes[req.Muscle] = special.TotalVolume

	aggr := req.Aggressiveness
	if _, ok := volumeMultipliers[aggr]; !ok {
		aggr = Moderate
	}

	return models.SplitPlan{
		ID:                 req.ID,
		UserID:             req.UserID,
		Muscle:             req.Muscle,
		Aggressiveness:     string(aggr),
		CycleDays:          sched.CycleDays,
		Sessions:           sched.WorkoutTypes,
		FrequencyMap:       freq,
		VolumeDistribution: volumes,
		Active:             true,
		CreatedAt:          req.CreatedAt,
	}
}
