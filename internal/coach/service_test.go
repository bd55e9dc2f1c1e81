package coach

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/config"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/plateau"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/technique"
	"github.com/claude/liftplan/internal/volume"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

type fakeStore struct {
	sets       []models.SetRecord
	since      time.Time
	current    map[models.MuscleGroup]int
	previous   map[models.MuscleGroup]int
	avgRIR     *float64
	landmarks  map[models.MuscleGroup]volume.Landmark
	plans      []models.SplitPlan
	historyErr error
}

func (f *fakeStore) RecentWorkingSets(_ context.Context, _ int, exercise string, limit int) ([]models.SetRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []models.SetRecord
	for i := len(f.sets) - 1; i >= 0 && len(out) < limit; i-- {
		if s := f.sets[i]; s.ExerciseName == exercise && s.IsWorking() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ExerciseHistory(_ context.Context, _ int, exercise string, since time.Time) ([]models.SetRecord, error) {
	f.since = since
	var out []models.SetRecord
	for _, s := range f.sets {
		if s.ExerciseName == exercise && !s.CompletedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ExerciseNames(_ context.Context, _ int, since time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range f.sets {
		if !seen[s.ExerciseName] && !s.CompletedAt.Before(since) {
			seen[s.ExerciseName] = true
			out = append(out, s.ExerciseName)
		}
	}
	return out, nil
}

func (f *fakeStore) WeeklyMuscleVolume(_ context.Context, _ int, _, end time.Time) (map[models.MuscleGroup]int, error) {
	if end.Equal(testNow) {
		return f.current, nil
	}
	return f.previous, nil
}

func (f *fakeStore) AverageRIR(context.Context, int, time.Time, time.Time) (*float64, error) {
	return f.avgRIR, nil
}

func (f *fakeStore) VolumeLandmarks(context.Context, string) (map[models.MuscleGroup]volume.Landmark, error) {
	if f.landmarks == nil {
		return nil, storage.ErrNotFound
	}
	return f.landmarks, nil
}

func (f *fakeStore) SaveSplitPlan(_ context.Context, plan models.SplitPlan) error {
	for i := range f.plans {
		f.plans[i].Active = false
	}
	f.plans = append(f.plans, plan)
	return nil
}

func (f *fakeStore) ActiveSplitPlan(_ context.Context, userID int) (*models.SplitPlan, error) {
	for i := range f.plans {
		if f.plans[i].Active && f.plans[i].UserID == userID {
			return &f.plans[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetSplitPlan(_ context.Context, id uuid.UUID, userID int) (*models.SplitPlan, error) {
	for i := range f.plans {
		if f.plans[i].ID == id && f.plans[i].UserID == userID {
			return &f.plans[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func newTestService(f *fakeStore, withPlans bool) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var plans PlanStore
	if withPlans {
		plans = f
	}
	s := New(f, f, plans, config.DefaultEngine(), log)
	s.now = func() time.Time { return testNow }
	return s
}

func set(exercise string, daysAgo int, weight float64, reps int, rir float64) models.SetRecord {
	return models.SetRecord{
		ExerciseName: exercise,
		Weight:       weight,
		Reps:         reps,
		RIR:          &rir,
		SetType:      models.SetWorking,
		CompletedAt:  testNow.AddDate(0, 0, -daysAgo),
	}
}

// TestTarget verifies the default and explicit rep ranges drive the progression rule.
func TestTarget(t *testing.T) {
	f := &fakeStore{sets: []models.SetRecord{set("Bench Press", 3, 60, 10, 3)}}
	s := newTestService(f, false)
	ctx := context.Background()

	got, err := s.Target(ctx, 1, "Bench Press", nil)
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if got.Rule != overload.RuleAddReps || got.Weight != 60 || got.Reps != 11 {
		t.Errorf("default range target = %+v, want add_reps 60x11", got)
	}

	got, err = s.Target(ctx, 1, "Bench Press", &overload.RepRange{Min: 6, Max: 10})
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if got.Rule != overload.RuleIncreaseLoad || got.Weight != 62.5 || got.Reps != 6 {
		t.Errorf("6-10 target = %+v, want increase_load 62.5x6", got)
	}
}

// TestTargetStoreError verifies store failures are returned wrapped.
func TestTargetStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	s := newTestService(&fakeStore{historyErr: boom}, false)
	if _, err := s.Target(context.Background(), 1, "Squat", nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

// TestPlateau verifies the history window and detector thresholds.
func TestPlateau(t *testing.T) {
	f := &fakeStore{}
	for d := 5; d >= 1; d-- {
		f.sets = append(f.sets, set("Row", d*3, 80, 8, 2))
	}
	s := newTestService(f, false)

	got, err := s.Plateau(context.Background(), 1, "Row")
	if err != nil {
		t.Fatalf("Plateau: %v", err)
	}
	if want := testNow.AddDate(0, 0, -100); !f.since.Equal(want) {
		t.Errorf("history since = %v, want %v", f.since, want)
	}
	if got.State != plateau.StatePlateaued || got.NonImprovingStreak != 4 {
		t.Errorf("state = %s streak = %d, want plateaued/4", got.State, got.NonImprovingStreak)
	}
	if got.Suggestion == nil || got.Suggestion.SuggestedAction != plateau.ActionEscalateTechnique {
		t.Errorf("suggestion = %+v, want escalate_technique", got.Suggestion)
	}
}

// TestLandmarks verifies the built-in fallback and config overrides.
func TestLandmarks(t *testing.T) {
	s := newTestService(&fakeStore{}, false)
	s.engine.Landmarks = []volume.Landmark{{Muscle: models.Chest, MEV: 12, MAV: 16, MRV: 22}}

	table, err := s.Landmarks(context.Background())
	if err != nil {
		t.Fatalf("Landmarks: %v", err)
	}
	if got := table[models.Chest]; got.MEV != 12 || got.MRV != 22 {
		t.Errorf("chest = %+v, want override", got)
	}
	if got, want := table[models.Quads], volume.DefaultLandmarks()[models.Quads]; got != want {
		t.Errorf("quads = %+v, want built-in %+v", got, want)
	}

	stored := map[models.MuscleGroup]volume.Landmark{
		models.Biceps: {Muscle: models.Biceps, MEV: 4, MAV: 8, MRV: 12},
	}
	s = newTestService(&fakeStore{landmarks: stored}, false)
	table, err = s.Landmarks(context.Background())
	if err != nil {
		t.Fatalf("Landmarks: %v", err)
	}
	if len(table) != 1 || table[models.Biceps].MRV != 12 {
		t.Errorf("table = %+v, want stored table", table)
	}
}

// TestCreatePlan verifies validation, MEV base volumes and persistence.
func TestCreatePlan(t *testing.T) {
	ctx := context.Background()
	if _, err := newTestService(&fakeStore{}, false).CreatePlan(ctx, 1, PlanOptions{Muscle: "quads", WeeklyFrequency: 3}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("offline CreatePlan err = %v, want ErrUnavailable", err)
	}

	f := &fakeStore{}
	s := newTestService(f, true)

	for _, opts := range []PlanOptions{
		{Muscle: "neck", WeeklyFrequency: 3},
		{Muscle: "quads", WeeklyFrequency: 0},
		{Muscle: "quads", WeeklyFrequency: 3, Aggressiveness: "extreme"},
	} {
		if _, err := s.CreatePlan(ctx, 1, opts); !errors.Is(err, ErrInvalid) {
			t.Errorf("CreatePlan(%+v) err = %v, want ErrInvalid", opts, err)
		}
	}

	first, err := s.CreatePlan(ctx, 1, PlanOptions{Muscle: "Quads", WeeklyFrequency: 3})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	// Quads MEV 8 scaled by the moderate multiplier.
	if got := first.VolumeDistribution[models.Quads]; got != 10 {
		t.Errorf("quads volume = %d, want 10", got)
	}
	if got := first.VolumeDistribution[models.Chest]; got != 10 {
		t.Errorf("chest volume = %d, want MEV 10", got)
	}
	if !first.CreatedAt.Equal(testNow) || first.Aggressiveness != "moderate" {
		t.Errorf("plan = %+v", first)
	}

	second, err := s.CreatePlan(ctx, 1, PlanOptions{Muscle: "side delts", WeeklyFrequency: 5, Aggressiveness: "high"})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	active, err := s.ActivePlan(ctx, 1)
	if err != nil {
		t.Fatalf("ActivePlan: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active = %s, want %s", active.ID, second.ID)
	}
	old, err := s.GetPlan(ctx, 1, first.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if old.Active {
		t.Error("superseded plan still active")
	}
	if _, err := s.GetPlan(ctx, 2, first.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("other user's plan err = %v, want ErrNotFound", err)
	}
}

// TestVolumeReport verifies weekly classification, cycle change and plan progress.
func TestVolumeReport(t *testing.T) {
	planID := uuid.MustParse("0b4c6c2e-2f0b-4c43-8d7e-5f7a3f8c9a10")
	f := &fakeStore{
		current:  map[models.MuscleGroup]int{models.Chest: 7, models.Quads: 19},
		previous: map[models.MuscleGroup]int{models.Chest: 14},
		plans: []models.SplitPlan{{
			ID: planID, UserID: 1, Active: true,
			VolumeDistribution: map[models.MuscleGroup]int{models.Chest: 14},
		}},
	}
	s := newTestService(f, true)

	report, err := s.VolumeReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("VolumeReport: %v", err)
	}
	if !report.End.Equal(testNow) || !report.Start.Equal(testNow.AddDate(0, 0, -7)) {
		t.Errorf("window = %v..%v", report.Start, report.End)
	}
	if len(report.Muscles) != len(models.AllMuscleGroups()) {
		t.Fatalf("muscles = %d, want %d", len(report.Muscles), len(models.AllMuscleGroups()))
	}

	byMuscle := map[models.MuscleGroup]MuscleVolume{}
	for _, m := range report.Muscles {
		byMuscle[m.Muscle] = m
	}
	chest := byMuscle[models.Chest]
	if chest.Status != volume.UnderMEV {
		t.Errorf("chest status = %s, want under_mev", chest.Status)
	}
	if diff := cmp.Diff(volume.CycleChange{Current: 7, Previous: 14, PercentChange: -50, Defined: true}, chest.Change); diff != "" {
		t.Errorf("chest change mismatch (-want +got):\n%s", diff)
	}
	if q := byMuscle[models.Quads]; q.Status != volume.OverMRV || q.Change.Defined {
		t.Errorf("quads = %+v, want over_mrv with undefined change", q)
	}

	if report.Plan == nil || report.Plan.PlanID != planID {
		t.Fatalf("plan = %+v, want active plan", report.Plan)
	}
	want := []volume.PlanProgress{{Muscle: models.Chest, Target: 14, Actual: 7, Percentage: 50, Status: volume.UnderMEV}}
	if diff := cmp.Diff(want, report.Plan.Progress); diff != "" {
		t.Errorf("plan progress mismatch (-want +got):\n%s", diff)
	}
}

// TestExpand verifies technique decoding and base prescription from the target.
func TestExpand(t *testing.T) {
	f := &fakeStore{sets: []models.SetRecord{set("Bench Press", 2, 60, 10, 3)}}
	s := newTestService(f, false)
	ctx := context.Background()

	got, err := s.Expand(ctx, 1, ExpandRequest{
		Exercise:  "Bench Press",
		Technique: []byte(`{"type":"drop_set","config":{"drops":1,"drop_percentage":20}}`),
	})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got.Target == nil || got.Weight != 60 || got.Reps != 11 || got.Sets != DefaultSets {
		t.Errorf("base = %+v, want 60x11x3 from target", got)
	}
	want := []technique.VirtualSet{
		{SetNumber: 1, Weight: 60, TargetReps: 11},
		{SetNumber: 2, Weight: 60, TargetReps: 11},
		{SetNumber: 3, Weight: 60, TargetReps: 11},
		{SetNumber: 4, Weight: 48, TargetReps: 9, Label: technique.LabelDrop, RestSecondsOverride: intPtr(10)},
	}
	if diff := cmp.Diff(want, got.VirtualSets); diff != "" {
		t.Errorf("virtual sets mismatch (-want +got):\n%s", diff)
	}
	if got.TotalSets != 4 || got.Type != technique.TypeDropSet {
		t.Errorf("total = %d type = %s", got.TotalSets, got.Type)
	}

	plain, err := s.Expand(ctx, 1, ExpandRequest{Weight: 40, Reps: 12, Sets: 2})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if plain.Target != nil || plain.TotalSets != 2 || !plain.IsSupported {
		t.Errorf("plain expansion = %+v", plain)
	}

	if _, err := s.Expand(ctx, 1, ExpandRequest{Technique: []byte(`{"type":"tempo"}`)}); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown technique err = %v, want ErrInvalid", err)
	}
}

func intPtr(v int) *int { return &v }

// TestDeload verifies two of three triggers recommend a deload.
func TestDeload(t *testing.T) {
	rir := 2.0
	f := &fakeStore{
		current: map[models.MuscleGroup]int{models.Chest: 25},
		avgRIR:  &rir,
	}
	for d := 5; d >= 1; d-- {
		f.sets = append(f.sets, set("Bench Press", d*4, 100, 5, 2))
		f.sets = append(f.sets, set("Squat", d*4, 100+float64(10-d), 5, 2))
	}
	s := newTestService(f, false)

	got, err := s.Deload(context.Background(), 1)
	if err != nil {
		t.Fatalf("Deload: %v", err)
	}
	wantSig := plateau.DeloadSignals{StalledExercises: 1, TotalExercises: 2, MusclesOverMRV: 1, AverageRIR: &rir}
	if diff := cmp.Diff(wantSig, got.Signals); diff != "" {
		t.Errorf("signals mismatch (-want +got):\n%s", diff)
	}
	if !got.Recommended {
		t.Errorf("assessment = %+v, want recommended", got.DeloadAssessment)
	}
	wantTriggers := []plateau.Trigger{plateau.TriggerStalledExercises, plateau.TriggerOverMRV}
	if diff := cmp.Diff(wantTriggers, got.Triggers); diff != "" {
		t.Errorf("triggers mismatch (-want +got):\n%s", diff)
	}
	if len(got.Stalled) != 1 || got.Stalled[0].ExerciseName != "Bench Press" {
		t.Errorf("stalled = %+v, want Bench Press", got.Stalled)
	}
}
