// Package coach runs the training engine against stored history, landmarks
// and split plans.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftplan/internal/config"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/plateau"
	"github.com/claude/liftplan/internal/split"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/technique"
	"github.com/claude/liftplan/internal/volume"
	"github.com/google/uuid"
)

var (
	// ErrUnavailable is returned when an operation needs a store this
	// service was built without (split plans in offline mode).
	ErrUnavailable = errors.New("not available in this mode")
	// ErrInvalid marks a request the caller must fix.
	ErrInvalid = errors.New("invalid request")
)

// DefaultSets is used by Expand when the caller gives no set count.
const DefaultSets = 3

// HistorySource reads logged sets. Implemented by *storage.DB and *localstore.Store.
type HistorySource interface {
	RecentWorkingSets(ctx context.Context, userID int, exercise string, limit int) ([]models.SetRecord, error)
	ExerciseHistory(ctx context.Context, userID int, exercise string, since time.Time) ([]models.SetRecord, error)
	ExerciseNames(ctx context.Context, userID int, since time.Time) ([]string, error)
	WeeklyMuscleVolume(ctx context.Context, userID int, start, end time.Time) (map[models.MuscleGroup]int, error)
	AverageRIR(ctx context.Context, userID int, start, end time.Time) (*float64, error)
}

// LandmarkSource loads a stored landmark table.
type LandmarkSource interface {
	VolumeLandmarks(ctx context.Context, approach string) (map[models.MuscleGroup]volume.Landmark, error)
}

// PlanStore persists split plans.
type PlanStore interface {
	SaveSplitPlan(ctx context.Context, plan models.SplitPlan) error
	ActiveSplitPlan(ctx context.Context, userID int) (*models.SplitPlan, error)
	GetSplitPlan(ctx context.Context, id uuid.UUID, userID int) (*models.SplitPlan, error)
}

var (
	_ HistorySource  = (*storage.DB)(nil)
	_ LandmarkSource = (*storage.DB)(nil)
	_ PlanStore      = (*storage.DB)(nil)
)

// Service answers coaching questions for one engine configuration.
type Service struct {
	history   HistorySource
	landmarks LandmarkSource
	plans     PlanStore
	engine    config.EngineConfig
	detector  *plateau.Detector
	log       *slog.Logger
	now       func() time.Time
}

// New creates a Service. landmarks and plans may be nil: landmarks then
// come from the built-in table and plan operations return ErrUnavailable.
func New(history HistorySource, landmarks LandmarkSource, plans PlanStore, engine config.EngineConfig, log *slog.Logger) *Service {
	return &Service{
		history:   history,
		landmarks: landmarks,
		plans:     plans,
		engine:    engine,
		detector:  plateau.NewDetector(engine.Plateau),
		log:       log,
		now:       time.Now,
	}
}

// Engine returns the engine configuration the service runs with.
func (s *Service) Engine() config.EngineConfig { return s.engine }

// Target computes the next prescription for an exercise. A nil repRange
// uses the configured default.
func (s *Service) Target(ctx context.Context, userID int, exercise string, repRange *overload.RepRange) (overload.Target, error) {
	rr := s.engine.RepRange
	if repRange != nil {
		rr = *repRange
	}
	sets, err := s.history.RecentWorkingSets(ctx, userID, exercise, overload.RecentSetLimit)
	if err != nil {
		return overload.Target{}, fmt.Errorf("loading recent sets: %w", err)
	}
	return overload.GetProgressiveTarget(exercise, rr, sets), nil
}

// Plateau classifies an exercise's progress over the history window.
func (s *Service) Plateau(ctx context.Context, userID int, exercise string) (plateau.Result, error) {
	sets, err := s.history.ExerciseHistory(ctx, userID, exercise, s.historyStart())
	if err != nil {
		return plateau.Result{}, fmt.Errorf("loading history: %w", err)
	}
	return s.detector.Detect(exercise, plateau.SummarizeSessions(sets)), nil
}

func (s *Service) historyStart() time.Time {
	days := s.engine.HistoryLimit
	if days <= 0 {
		days = config.DefaultEngine().HistoryLimit
	}
	return s.now().AddDate(0, 0, -days)
}

// Landmarks returns the landmark table for the configured approach: the
// stored table (or the built-in one) with config overrides applied.
func (s *Service) Landmarks(ctx context.Context) (map[models.MuscleGroup]volume.Landmark, error) {
	table := volume.DefaultLandmarks()
	if s.landmarks != nil {
		stored, err := s.landmarks.VolumeLandmarks(ctx, s.engine.Approach)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			s.log.Warn("no stored landmarks, using built-in table", "approach", s.engine.Approach)
		case err != nil:
			return nil, fmt.Errorf("loading landmarks: %w", err)
		default:
			table = stored
		}
	}
	for m, l := range s.engine.LandmarkOverrides() {
		table[m] = l
	}
	return table, nil
}

// MuscleVolume is one muscle's weekly classification and its change from
// the previous week.
type MuscleVolume struct {
	volume.Classification
	Change volume.CycleChange `json:"change"`
}

// PlanVolume compares the week against the active split plan.
type PlanVolume struct {
	PlanID   uuid.UUID             `json:"plan_id"`
	Progress []volume.PlanProgress `json:"progress"`
}

// VolumeReport covers the seven days ending at End.
type VolumeReport struct {
	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
	Muscles []MuscleVolume `json:"muscles"`
	Plan    *PlanVolume    `json:"plan,omitempty"`
}

// VolumeReport classifies the last seven days of volume per muscle, compares
// it with the seven days before, and with the active plan when there is one.
func (s *Service) VolumeReport(ctx context.Context, userID int) (*VolumeReport, error) {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -7)

	current, err := s.history.WeeklyMuscleVolume(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading current volume: %w", err)
	}
	previous, err := s.history.WeeklyMuscleVolume(ctx, userID, start.AddDate(0, 0, -7), start)
	if err != nil {
		return nil, fmt.Errorf("loading previous volume: %w", err)
	}
	table, err := s.Landmarks(ctx)
	if err != nil {
		return nil, err
	}

	tracker := volume.NewTracker(table, s.engine.NearMRVMargin)
	report := &VolumeReport{Start: start, End: end}
	for _, c := range tracker.Report(current) {
		report.Muscles = append(report.Muscles, MuscleVolume{
			Classification: c,
			Change:         volume.CompareCycles(current[c.Muscle], previous[c.Muscle]),
		})
	}

	if s.plans == nil {
		return report, nil
	}
	plan, err := s.plans.ActiveSplitPlan(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading active plan: %w", err)
	default:
		report.Plan = &PlanVolume{PlanID: plan.ID, Progress: tracker.AgainstPlan(*plan, current)}
	}
	return report, nil
}

// PlanOptions describes the split a user asks for.
type PlanOptions struct {
	Muscle          string `json:"muscle"`
	WeeklyFrequency int    `json:"weekly_frequency"`
	Aggressiveness  string `json:"aggressiveness"`
	// TargetFrequency overrides the derived specialization frequency when > 0.
	TargetFrequency int `json:"target_frequency,omitempty"`
}

// PreviewPlan builds a split without storing it. Base volumes are each
// muscle's MEV from the landmark table.
func (s *Service) PreviewPlan(ctx context.Context, userID int, opts PlanOptions) (models.SplitPlan, error) {
	muscle, err := models.ParseMuscleGroup(opts.Muscle)
	if err != nil {
		return models.SplitPlan{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if opts.WeeklyFrequency < 1 || opts.WeeklyFrequency > 7 {
		return models.SplitPlan{}, fmt.Errorf("%w: weekly_frequency must be 1-7 (got %d)", ErrInvalid, opts.WeeklyFrequency)
	}
	aggr := split.Moderate
	if opts.Aggressiveness != "" {
		if aggr, err = split.ParseAggressiveness(opts.Aggressiveness); err != nil {
			return models.SplitPlan{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}

	table, err := s.Landmarks(ctx)
	if err != nil {
		return models.SplitPlan{}, err
	}
	base := make(map[models.MuscleGroup]int, len(table))
	for m, l := range table {
		base[m] = l.MEV
	}

	return split.BuildPlan(split.PlanRequest{
		ID:              uuid.New(),
		UserID:          userID,
		Muscle:          muscle,
		WeeklyFrequency: opts.WeeklyFrequency,
		Aggressiveness:  aggr,
		Config:          split.Config{TargetFrequency: opts.TargetFrequency},
		BaseVolumes:     base,
		CreatedAt:       s.now().UTC(),
	}), nil
}

// CreatePlan builds a split and stores it as the user's active plan.
func (s *Service) CreatePlan(ctx context.Context, userID int, opts PlanOptions) (models.SplitPlan, error) {
	if s.plans == nil {
		return models.SplitPlan{}, ErrUnavailable
	}
	plan, err := s.PreviewPlan(ctx, userID, opts)
	if err != nil {
		return models.SplitPlan{}, err
	}
	if err := s.plans.SaveSplitPlan(ctx, plan); err != nil {
		return models.SplitPlan{}, fmt.Errorf("saving plan: %w", err)
	}
	s.log.Info("split plan created", "user_id", userID, "plan_id", plan.ID,
		"muscle", plan.Muscle, "cycle_days", plan.CycleDays)
	return plan, nil
}

// ActivePlan returns the user's active split plan.
func (s *Service) ActivePlan(ctx context.Context, userID int) (*models.SplitPlan, error) {
	if s.plans == nil {
		return nil, ErrUnavailable
	}
	return s.plans.ActiveSplitPlan(ctx, userID)
}

// GetPlan returns one of the user's split plans by ID.
func (s *Service) GetPlan(ctx context.Context, userID int, id uuid.UUID) (*models.SplitPlan, error) {
	if s.plans == nil {
		return nil, ErrUnavailable
	}
	return s.plans.GetSplitPlan(ctx, id, userID)
}

// ExpandRequest asks for a technique expansion. When Exercise is set and
// Weight or Reps is missing, they come from the exercise's progressive target.
type ExpandRequest struct {
	Exercise  string          `json:"exercise,omitempty"`
	Technique json.RawMessage `json:"technique,omitempty"`
	Weight    float64         `json:"weight,omitempty"`
	Reps      int             `json:"reps,omitempty"`
	Sets      int             `json:"sets,omitempty"`
}

// Expansion is an expanded technique with the prescription it was built from.
type Expansion struct {
	Exercise string           `json:"exercise,omitempty"`
	Target   *overload.Target `json:"target,omitempty"`
	Weight   float64          `json:"base_weight"`
	Reps     int              `json:"base_reps"`
	Sets     int              `json:"base_sets"`
	technique.Result
	TotalSets int `json:"total_sets"`
}

// Expand decodes the requested technique and expands it into virtual sets.
// An empty technique expands to plain straight sets.
func (s *Service) Expand(ctx context.Context, userID int, req ExpandRequest) (*Expansion, error) {
	var t technique.Technique
	if len(req.Technique) > 0 && string(req.Technique) != "null" {
		var err error
		if t, err = technique.Decode(req.Technique); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}

	out := &Expansion{Exercise: req.Exercise, Weight: req.Weight, Reps: req.Reps, Sets: req.Sets}
	if out.Sets <= 0 {
		out.Sets = DefaultSets
	}
	if req.Exercise != "" && (req.Weight <= 0 || req.Reps <= 0) {
		target, err := s.Target(ctx, userID, req.Exercise, nil)
		if err != nil {
			return nil, err
		}
		out.Target = &target
		if out.Weight <= 0 {
			out.Weight = target.Weight
		}
		if out.Reps <= 0 {
			out.Reps = target.Reps
		}
	}

	out.Result = technique.Expand(t, out.Weight, out.Reps, out.Sets)
	out.TotalSets = len(out.VirtualSets)
	return out, nil
}

// DeloadReport is a deload assessment with the signals behind it.
type DeloadReport struct {
	plateau.DeloadAssessment
	Signals plateau.DeloadSignals `json:"signals"`
	// Stalled lists the exercises that are not progressing.
	Stalled []plateau.Result `json:"stalled"`
}

// Deload checks every exercise trained in the last four weeks for plateaus,
// counts muscles over MRV this week and the week's average RIR, then applies
// the deload trigger rule.
func (s *Service) Deload(ctx context.Context, userID int) (*DeloadReport, error) {
	now := s.now().UTC()
	weekStart := now.AddDate(0, 0, -7)

	names, err := s.history.ExerciseNames(ctx, userID, now.AddDate(0, 0, -28))
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	results := make([]plateau.Result, 0, len(names))
	stalled := []plateau.Result{}
	for _, name := range names {
		r, err := s.Plateau(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
		if r.State != plateau.StateProgressing {
			stalled = append(stalled, r)
		}
	}

	current, err := s.history.WeeklyMuscleVolume(ctx, userID, weekStart, now)
	if err != nil {
		return nil, fmt.Errorf("loading weekly volume: %w", err)
	}
	table, err := s.Landmarks(ctx)
	if err != nil {
		return nil, err
	}
	overMRV := 0
	for _, c := range volume.NewTracker(table, 0).Report(current) {
		if c.Status == volume.OverMRV {
			overMRV++
		}
	}

	avgRIR, err := s.history.AverageRIR(ctx, userID, weekStart, now)
	if err != nil {
		return nil, fmt.Errorf("loading average RIR: %w", err)
	}

	sig := plateau.DeloadSignals{
		StalledExercises: plateau.CountStalled(results),
		TotalExercises:   len(results),
		MusclesOverMRV:   overMRV,
		AverageRIR:       avgRIR,
	}
	return &DeloadReport{
		DeloadAssessment: plateau.AssessDeload(sig, s.engine.Deload),
		Signals:          sig,
		Stalled:          stalled,
	}, nil
}
