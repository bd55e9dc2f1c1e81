// Package overload computes the next weight/rep target for an exercise from
// its most recent working sets.
package overload

import (
	"math"
	"time"

	"github.com/claude/liftplan/internal/models"
)

// Default-value policies for incomplete history.
const (
	// DefaultRIR is assumed when a set was logged without reps in reserve.
	DefaultRIR = 3.0
	// RecentSetLimit is how many recent working sets callers should supply.
	RecentSetLimit = 5
)

// Progression constants.
const (
	// LowRIRThreshold: a last set below this RIR was hard enough to add load.
	LowRIRThreshold = 2.0
	// HeavyLoadThreshold separates the two load increments.
	HeavyLoadThreshold = 40.0
	HeavyIncrement     = 2.5
	LightIncrement     = 1.25
	FallbackIncrement  = 1.25
)

// Rule names the progression branch that produced a target.
type Rule string

const (
	RuleNoHistory    Rule = "no_history"
	RuleIncreaseLoad Rule = "increase_load"
	RuleAddReps      Rule = "add_reps"
	RuleFallbackLoad Rule = "fallback_load"
)

// RepRange is the prescribed rep window for an exercise.
type RepRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Normalize returns a usable range: Min at least 1 and Max at least Min.
func (r RepRange) Normalize() RepRange {
	if r.Min < 1 {
		r.Min = 1
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

// Target is the suggested next prescription for an exercise.
type Target struct {
	ExerciseName    string     `json:"exercise_name"`
	Weight          float64    `json:"weight"`
	Reps            int        `json:"reps"`
	HasHistory      bool       `json:"has_history"`
	LastPerformedAt *time.Time `json:"last_performed_at,omitempty"`
	BasedOnSets     int        `json:"based_on_sets"`
	Rule            Rule       `json:"rule"`
}

// RoundToQuarter rounds to the nearest 0.25 via round(x*4)/4.
func RoundToQuarter(x float64) float64 {
	return math.Round(x*4) / 4
}

// GetProgressiveTarget applies double progression to the latest working set:
// add load when the set was hard or hit the top of the range, otherwise add a
// rep. Warmup and skipped sets are ignored. It never fails; malformed values
// fall back to their defaults.
func GetProgressiveTarget(exerciseName string, repRange RepRange, recentSets []models.SetRecord) Target {
	rr := repRange.Normalize()

	working := make([]models.SetRecord, 0, len(recentSets))
	for _, s := range recentSets {
		if s.IsWorking() {
			working = append(working, s)
		}
	}

	if len(working) == 0 {
		return Target{
			ExerciseName: exerciseName,
			Weight:       0,
			Reps:         rr.Min,
			HasHistory:   false,
			BasedOnSets:  0,
			Rule:         RuleNoHistory,
		}
	}

	last := mostRecent(working)
	lastWeight := sanitizeWeight(last.Weight)
	lastReps := max(last.Reps, 0)
	lastRIR := rirOrDefault(last.RIR)
	performed := last.CompletedAt

	t := Target{
		ExerciseName: exerciseName,
		HasHistory:   true,
		BasedOnSets:  len(working),
	}
	if !performed.IsZero() {
		t.LastPerformedAt = &performed
	}

	switch {
	case lastRIR < LowRIRThreshold || lastReps >= rr.Max:
		inc := LightIncrement
		if lastWeight >= HeavyLoadThreshold {
			inc = HeavyIncrement
		}
		t.Weight = RoundToQuarter(lastWeight + inc)
		t.Reps = rr.Min
		t.Rule = RuleIncreaseLoad
	case lastReps < rr.Max:
		t.Weight = lastWeight
		t.Reps = min(lastReps+1, rr.Max)
		t.Rule = RuleAddReps
	default:
		// Unreachable with a normalized range; kept so the rule table stays total.
		t.Weight = RoundToQuarter(lastWeight + FallbackIncrement)
		t.Reps = rr.Min
		t.Rule = RuleFallbackLoad
	}
	return t
}

// mostRecent returns the set with the latest CompletedAt; ties keep the earliest in slice order.
func mostRecent(sets []models.SetRecord) models.SetRecord {
	best := sets[0]
	for _, s := range sets[1:] {
		if s.CompletedAt.After(best.CompletedAt) {
			best = s
		}
	}
	return best
}

func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func rirOrDefault(rir *float64) float64 {
	if rir == nil || math.IsNaN(*rir) || *rir < 0 {
		return DefaultRIR
	}
	return *rir
}
