package volume

import (
	"math"
	"slices"
	"strings"

	"github.com/claude/liftplan/internal/models"
)

// Status is the landmark band a muscle's weekly volume falls in.
type Status string

const (
	UnderMEV Status = "under_mev"
	InRange  Status = "in_range"
	NearMRV  Status = "near_mrv"
	OverMRV  Status = "over_mrv"
)

// Zone separates the two halves of the in_range band.
type Zone string

const (
	ZoneSubOptimal Zone = "sub_optimal"
	ZoneOptimal    Zone = "optimal"
)

// Classification is the outcome of comparing actual volume to a landmark.
type Classification struct {
	Muscle     models.MuscleGroup `json:"muscle"`
	Actual     int                `json:"actual"`
	Landmark   Landmark           `json:"landmark"`
	Percentage int                `json:"percentage"`
	Status     Status             `json:"status"`
	Zone       Zone               `json:"zone,omitempty"`
}

// Classify compares actual weekly sets to a landmark using the base
// thresholds (no near_mrv band).
func Classify(muscle models.MuscleGroup, landmark Landmark, actual int) Classification {
	return classify(muscle, landmark, actual, 0)
}

func classify(muscle models.MuscleGroup, l Landmark, actual, nearMRVMargin int) Classification {
	c := Classification{
		Muscle:     muscle,
		Actual:     actual,
		Landmark:   l,
		Percentage: PercentOfTarget(l.MAV, actual),
	}
	switch {
	case actual < l.MEV:
		c.Status = UnderMEV
	case actual >= l.MRV:
		c.Status = OverMRV
	case nearMRVMargin > 0 && actual >= l.MRV-nearMRVMargin:
		c.Status = NearMRV
	case actual < l.MAV:
		c.Status = InRange
		c.Zone = ZoneSubOptimal
	default:
		c.Status = InRange
		c.Zone = ZoneOptimal
	}
	return c
}

// PercentOfTarget returns round(actual/target*100), or 0 when target <= 0.
func PercentOfTarget(target, actual int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(actual) / float64(target) * 100))
}

// CycleChange compares one cycle's volume with the previous cycle.
type CycleChange struct {
	Current       int     `json:"current"`
	Previous      int     `json:"previous"`
	PercentChange float64 `json:"percent_change"`
	// Defined is false when there was no previous volume to compare against.
	Defined bool `json:"defined"`
}

// CompareCycles returns (current-previous)/previous*100. A zero previous
// volume yields an undefined change of 0.
func CompareCycles(current, previous int) CycleChange {
	c := CycleChange{Current: current, Previous: previous}
	if previous == 0 {
		return c
	}
	c.PercentChange = float64(current-previous) / float64(previous) * 100
	c.Defined = true
	return c
}

// Tracker classifies volume for a whole landmark table.
type Tracker struct {
	landmarks     map[models.MuscleGroup]Landmark
	nearMRVMargin int
}

// NewTracker creates a Tracker. A positive nearMRVMargin turns on the
// near_mrv band for volume within that many sets of MRV.
func NewTracker(landmarks map[models.MuscleGroup]Landmark, nearMRVMargin int) *Tracker {
	if nearMRVMargin < 0 {
		nearMRVMargin = 0
	}
	return &Tracker{landmarks: landmarks, nearMRVMargin: nearMRVMargin}
}

// Classify classifies one muscle. ok is false when the table has no landmark for it.
func (t *Tracker) Classify(muscle models.MuscleGroup, actual int) (Classification, bool) {
	l, ok := t.landmarks[muscle]
	if !ok {
		return Classification{}, false
	}
	return classify(muscle, l, actual, t.nearMRVMargin), true
}

// Report classifies every muscle in the landmark table, in vocabulary order.
// Muscles missing from actual count as zero sets.
func (t *Tracker) Report(actual map[models.MuscleGroup]int) []Classification {
	out := make([]Classification, 0, len(t.landmarks))
	for _, m := range sortedMuscles(t.landmarks) {
		out = append(out, classify(m, t.landmarks[m], actual[m], t.nearMRVMargin))
	}
	return out
}

// PlanProgress compares actual volume to a split plan's planned volume.
type PlanProgress struct {
	Muscle     models.MuscleGroup `json:"muscle"`
	Target     int                `json:"target"`
	Actual     int                `json:"actual"`
	Percentage int                `json:"percentage"`
	Status     Status             `json:"status,omitempty"`
}

// AgainstPlan compares actual volume to each muscle planned in the split.
// Status is filled when the tracker has a landmark for the muscle.
func (t *Tracker) AgainstPlan(plan models.SplitPlan, actual map[models.MuscleGroup]int) []PlanProgress {
	out := make([]PlanProgress, 0, len(plan.VolumeDistribution))
	for _, m := range sortedMuscles(plan.VolumeDistribution) {
		target := plan.VolumeDistribution[m]
		p := PlanProgress{
			Muscle:     m,
			Target:     target,
			Actual:     actual[m],
			Percentage: PercentOfTarget(target, actual[m]),
		}
		if c, ok := t.Classify(m, actual[m]); ok {
			p.Status = c.Status
		}
		out = append(out, p)
	}
	return out
}

// sortedMuscles orders map keys by vocabulary position, unknown names last
// in lexical order.
func sortedMuscles[V any](m map[models.MuscleGroup]V) []models.MuscleGroup {
	order := make(map[models.MuscleGroup]int)
	for i, mg := range models.AllMuscleGroups() {
		order[mg] = i
	}
	keys := make([]models.MuscleGroup, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b models.MuscleGroup) int {
		ia, oka := order[a]
		ib, okb := order[b]
		switch {
		case oka && okb:
			return ia - ib
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(string(a), string(b))
	})
	return keys
}
