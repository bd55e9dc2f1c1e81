// Package plateau flags exercises whose best set has stopped improving and
// suggests what the exercise-selection step should do about it.
package plateau

import (
	"math"
	"slices"
	"time"

	"github.com/claude/liftplan/internal/models"
)

// State is where an exercise sits in the progress state machine.
type State string

const (
	StateProgressing State = "progressing"
	StateStalled     State = "stalled"
	StatePlateaued   State = "plateaued"
)

// Action is the change suggested for a plateaued exercise.
type Action string

const (
	ActionRotateExercise    Action = "rotate_exercise"
	ActionEscalateTechnique Action = "escalate_technique"
)

// Session is the best working set of one training day for one exercise.
type Session struct {
	Date        time.Time `json:"date"`
	BestWeight  float64   `json:"best_weight"`
	BestReps    int       `json:"best_reps"`
	WorkingSets int       `json:"working_sets"`
}

// Score is the weight x reps of the session's best set.
func (s Session) Score() float64 {
	return s.BestWeight * float64(s.BestReps)
}

// SummarizeSessions groups working sets by calendar day (UTC) and keeps the
// best set of each day, ordered oldest first. Warmups, skipped sets and
// sets without a timestamp are ignored.
func SummarizeSessions(sets []models.SetRecord) []Session {
	byDay := make(map[time.Time]*Session)
	for _, s := range sets {
		if !s.IsWorking() || s.CompletedAt.IsZero() {
			continue
		}
		w := s.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			w = 0
		}
		reps := max(s.Reps, 0)

		t := s.CompletedAt.UTC()
		key := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		sess, ok := byDay[key]
		if !ok {
			sess = &Session{Date: key}
			byDay[key] = sess
		}
		sess.WorkingSets++

		score := w * float64(reps)
		best := sess.Score()
		if score > best || (score == best && w > sess.BestWeight) {
			sess.BestWeight = w
			sess.BestReps = reps
		}
	}

	out := make([]Session, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b Session) int { return a.Date.Compare(b.Date) })
	return out
}

// Config holds the detector thresholds, counted in sessions.
type Config struct {
	// StallAfter non-improving sessions move progressing to stalled.
	StallAfter int `yaml:"stall_after" json:"stall_after"`
	// PlateauAfter further non-improving sessions move stalled to plateaued.
	PlateauAfter int `yaml:"plateau_after" json:"plateau_after"`
	// RotateAfter further plateaued sessions escalate the suggestion from a
	// technique change to an exercise rotation.
	RotateAfter int `yaml:"rotate_after" json:"rotate_after"`
}

// DefaultConfig returns stall, plateau and rotate thresholds of two sessions each.
func DefaultConfig() Config {
	return Config{StallAfter: 2, PlateauAfter: 2, RotateAfter: 2}
}

// Suggestion is consumed by the exercise-selection step.
type Suggestion struct {
	ExerciseName    string `json:"exercise_name"`
	SuggestedAction Action `json:"suggested_action"`
}

// Result is the plateau classification of one exercise.
type Result struct {
	ExerciseName       string      `json:"exercise_name"`
	State              State       `json:"state"`
	NonImprovingStreak int         `json:"non_improving_streak"`
	BestScore          float64     `json:"best_score"`
	Sessions           int         `json:"sessions"`
	LastSession        *time.Time  `json:"last_session,omitempty"`
	Suggestion         *Suggestion `json:"suggestion,omitempty"`
}

// Detector classifies session histories with fixed thresholds.
type Detector struct {
	cfg Config
}

// NewDetector returns a detector; non-positive thresholds take their defaults.
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.StallAfter <= 0 {
		cfg.StallAfter = def.StallAfter
	}
	if cfg.PlateauAfter <= 0 {
		cfg.PlateauAfter = def.PlateauAfter
	}
	if cfg.RotateAfter <= 0 {
		cfg.RotateAfter = def.RotateAfter
	}
	return &Detector{cfg: cfg}
}

// Config returns the thresholds after defaults were applied.
func (d *Detector) Config() Config { return d.cfg }

// Detect runs the state machine over the sessions in date order. The first
// session sets the baseline; each later session either strictly beats the
// running best (resetting to progressing) or extends the non-improving streak.
func (d *Detector) Detect(exercise string, sessions []Session) Result {
	res := Result{ExerciseName: exercise, State: StateProgressing, Sessions: len(sessions)}
	if len(sessions) == 0 {
		return res
	}

	ordered := slices.Clone(sessions)
	slices.SortStableFunc(ordered, func(a, b Session) int { return a.Date.Compare(b.Date) })

	best := ordered[0].Score()
	streak := 0
	for _, s := range ordered[1:] {
		if score := s.Score(); score > best {
			best = score
			streak = 0
		} else {
			streak++
		}
	}

	last := ordered[len(ordered)-1].Date
	res.LastSession = &last
	res.BestScore = best
	res.NonImprovingStreak = streak

	plateauAt := d.cfg.StallAfter + d.cfg.PlateauAfter
	switch {
	case streak >= plateauAt:
		res.State = StatePlateaued
		action := ActionEscalateTechnique
		if streak >= plateauAt+d.cfg.RotateAfter {
			action = ActionRotateExercise
		}
		res.Suggestion = &Suggestion{ExerciseName: exercise, SuggestedAction: action}
	case streak >= d.cfg.StallAfter:
		res.State = StateStalled
	}
	return res
}
