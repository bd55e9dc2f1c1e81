package overload

import (
	"math"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/go-cmp/cmp"
)

var day = time.Date(2026, 2, 17, 17, 0, 0, 0, time.UTC)

func rir(v float64) *float64 { return &v }

func working(weight float64, reps int, r *float64, at time.Time) models.SetRecord {
	return models.SetRecord{
		ExerciseName: "Bench Press",
		Weight:       weight,
		Reps:         reps,
		RIR:          r,
		SetType:      models.SetWorking,
		CompletedAt:  at,
	}
}

// TestNoHistory verifies an empty history yields the bottom of the rep range at zero load.
func TestNoHistory(t *testing.T) {
	got := GetProgressiveTarget("Bench Press", RepRange{8, 12}, nil)
	want := Target{ExerciseName: "Bench Press", Weight: 0, Reps: 8, HasHistory: false, BasedOnSets: 0, Rule: RuleNoHistory}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}
}

// TestIncreaseLoadOnLowRIR verifies a near-failure set adds the heavy increment
// and resets reps to the bottom of the range.
func TestIncreaseLoadOnLowRIR(t *testing.T) {
	got := GetProgressiveTarget("Bench Press", RepRange{8, 12}, []models.SetRecord{working(100, 12, rir(1), day)})
	if got.Weight != 102.5 || got.Reps != 8 {
		t.Errorf("target = %v x %d, want 102.5 x 8", got.Weight, got.Reps)
	}
	if got.Rule != RuleIncreaseLoad || !got.HasHistory || got.BasedOnSets != 1 {
		t.Errorf("target = %+v, want increase_load with history from 1 set", got)
	}
	if got.LastPerformedAt == nil || !got.LastPerformedAt.Equal(day) {
		t.Errorf("lastPerformedAt = %v, want %v", got.LastPerformedAt, day)
	}
}

// TestAddReps verifies an in-range set with RIR to spare adds one rep at the same load.
func TestAddReps(t *testing.T) {
	got := GetProgressiveTarget("Bench Press", RepRange{8, 12}, []models.SetRecord{working(37.5, 9, rir(3), day)})
	if got.Weight != 37.5 || got.Reps != 10 {
		t.Errorf("target = %v x %d, want 37.5 x 10", got.Weight, got.Reps)
	}
	if got.Rule != RuleAddReps {
		t.Errorf("rule = %s, want add_reps", got.Rule)
	}
}

// TestIncreaseLoadAtTopOfRange verifies hitting the top of the range adds load
// even with RIR to spare, using the light increment below 40 kg.
func TestIncreaseLoadAtTopOfRange(t *testing.T) {
	got := GetProgressiveTarget("Lateral Raise", RepRange{10, 15}, []models.SetRecord{working(12, 15, rir(3), day)})
	if got.Weight != 13.25 || got.Reps != 10 {
		t.Errorf("target = %v x %d, want 13.25 x 10", got.Weight, got.Reps)
	}
}

// TestIncrementThreshold verifies 40 kg exactly uses the heavy increment.
func TestIncrementThreshold(t *testing.T) {
	got := GetProgressiveTarget("Row", RepRange{8, 12}, []models.SetRecord{working(40, 8, rir(0), day)})
	if got.Weight != 42.5 {
		t.Errorf("weight = %v, want 42.5", got.Weight)
	}
	got = GetProgressiveTarget("Row", RepRange{8, 12}, []models.SetRecord{working(39.9, 8, rir(0), day)})
	if got.Weight != 41.25 {
		t.Errorf("weight = %v, want 41.25 (39.9+1.25 rounded to 0.25)", got.Weight)
	}
}

// TestMissingRIRDefaults verifies nil and untracked RIR are treated as 3, so
// only the rep count decides the branch.
func TestMissingRIRDefaults(t *testing.T) {
	for _, r := range []*float64{nil, rir(-1), rir(math.NaN())} {
		got := GetProgressiveTarget("Squat", RepRange{6, 10}, []models.SetRecord{working(100, 7, r, day)})
		if got.Rule != RuleAddReps || got.Reps != 8 {
			t.Errorf("rir=%v: target = %+v, want add_reps to 8", r, got)
		}
	}
}

// TestUsesMostRecentSet verifies the latest completed set drives the target
// regardless of slice order, and warmups and skipped sets are ignored.
func TestUsesMostRecentSet(t *testing.T) {
	warm := working(60, 10, nil, day.Add(2*time.Hour))
	warm.SetType = models.SetWarmup
	skipped := working(200, 1, rir(0), day.Add(3*time.Hour))
	skipped.Skipped = true

	sets := []models.SetRecord{
		working(100, 8, rir(2), day.Add(-48*time.Hour)),
		warm,
		working(100, 10, rir(2), day),
		skipped,
		working(95, 12, rir(0), day.Add(-96*time.Hour)),
	}
	got := GetProgressiveTarget("Bench Press", RepRange{8, 12}, sets)
	if got.Weight != 100 || got.Reps != 11 {
		t.Errorf("target = %v x %d, want 100 x 11", got.Weight, got.Reps)
	}
	if got.BasedOnSets != 3 {
		t.Errorf("basedOnSets = %d, want 3 working sets", got.BasedOnSets)
	}

	got = GetProgressiveTarget("Bench Press", RepRange{8, 12}, []models.SetRecord{warm, skipped})
	if got.HasHistory {
		t.Errorf("only warmup/skipped sets should count as no history: %+v", got)
	}
}

// TestMalformedInput verifies bad numbers are sanitized instead of propagated.
func TestMalformedInput(t *testing.T) {
	got := GetProgressiveTarget("Dip", RepRange{12, 8}, []models.SetRecord{working(math.NaN(), -4, rir(3), time.Time{})})
	// Range normalizes to 12-12; reps clamp to 0 and weight to 0.
	if got.Weight != 0 || got.Reps != 1 || got.Rule != RuleAddReps {
		t.Errorf("target = %+v, want 0 x 1 via add_reps", got)
	}
	if got.LastPerformedAt != nil {
		t.Errorf("lastPerformedAt = %v, want nil for zero timestamp", got.LastPerformedAt)
	}

	got = GetProgressiveTarget("Dip", RepRange{0, 0}, nil)
	if got.Reps != 1 {
		t.Errorf("reps = %d, want 1 for empty range", got.Reps)
	}
}

// TestRoundToQuarter verifies the quarter-kilo rounding convention.
func TestRoundToQuarter(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{102.5, 102.5},
		{41.15, 41.25},
		{41.1, 41},
		{13.3, 13.25},
		{0.125, 0.25},
	}
	for _, tt := range tests {
		if got := RoundToQuarter(tt.in); got != tt.want {
			t.Errorf("RoundToQuarter(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestDeterministic verifies repeated calls on the same history agree.
func TestDeterministic(t *testing.T) {
	sets := []models.SetRecord{working(80, 9, rir(1.5), day), working(80, 10, nil, day.Add(-time.Hour))}
	a := GetProgressiveTarget("Bench Press", RepRange{8, 12}, sets)
	b := GetProgressiveTarget("Bench Press", RepRange{8, 12}, sets)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("not deterministic:\n%s", diff)
	}
}
