package technique

import (
	"math"
	"reflect"
)

// Label marks technique-specific sets in the rendered set list.
type Label string

const (
	LabelDrop      Label = "DROP"
	LabelRestPause Label = "+15s"
	LabelMyo       Label = "MYO"
	LabelCluster   Label = "CLUSTER"
	LabelFST7      Label = "FST-7"
)

const (
	dropSetRestSeconds = 10
	dropSetMinReps     = 6
	dropSetRepDrop     = 2
	restPauseMinReps   = 2
	restPauseRepDivide = 3
	fst7Sets           = 7
)

// VirtualSet is one concrete set in an expanded technique. SetNumber is
// 1-based and contiguous across the whole expansion.
type VirtualSet struct {
	SetNumber           int     `json:"set_number"`
	Weight              float64 `json:"weight"`
	TargetReps          int     `json:"target_reps"`
	Label               Label   `json:"label,omitempty"`
	RestSecondsOverride *int    `json:"rest_seconds_override,omitempty"`
}

// Result is the expansion of a technique into sets.
type Result struct {
	Type              Type         `json:"type,omitempty"`
	VirtualSets       []VirtualSet `json:"virtual_sets"`
	IsSupported       bool         `json:"is_supported"`
	UnsupportedReason string       `json:"unsupported_reason,omitempty"`
}

// RoundToHalf rounds a load to the nearest 0.5. Every supported expansion
// uses it for every weight it emits.
func RoundToHalf(x float64) float64 {
	return math.Round(x*2) / 2
}

// prescription is the sanitized base weight/reps/sets an expansion starts from.
type prescription struct {
	weight float64
	reps   int
	sets   int
}

// Expand turns a technique and the base prescription into the ordered set
// list. It never fails: a nil technique (including a nil variant pointer)
// yields plain sets, and unsupported techniques yield plain sets with a reason.
func Expand(t Technique, baseWeight float64, baseReps, baseSets int) Result {
	p := prescription{weight: baseWeight, reps: baseReps, sets: baseSets}
	if math.IsNaN(p.weight) || math.IsInf(p.weight, 0) || p.weight < 0 {
		p.weight = 0
	}
	p.reps = max(p.reps, 0)
	p.sets = max(p.sets, 1)

	if isNil(t) {
		return Result{VirtualSets: plainSets(p), IsSupported: true}
	}
	r := t.expand(p)
	r.Type = t.Type()
	return r
}

func isNil(t Technique) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// TotalVirtualSetCount returns how many sets the expansion produces.
func TotalVirtualSetCount(t Technique, baseSets int) int {
	return len(Expand(t, 0, 0, baseSets).VirtualSets)
}

// setList appends sets with contiguous numbering.
type setList []VirtualSet

func (l *setList) add(weight float64, reps int, label Label, rest *int) {
	vs := VirtualSet{
		SetNumber:  len(*l) + 1,
		Weight:     weight,
		TargetReps: reps,
		Label:      label,
	}
	if rest != nil {
		r := *rest
		vs.RestSecondsOverride = &r
	}
	*l = append(*l, vs)
}

// straightSets adds n unlabeled sets at the rounded base load.
func (l *setList) straightSets(n int, weight float64, reps int) {
	for range n {
		l.add(RoundToHalf(weight), reps, "", nil)
	}
}

func plainSets(p prescription) []VirtualSet {
	var l setList
	for range p.sets {
		l.add(p.weight, p.reps, "", nil)
	}
	return l
}

func seconds(v int) *int {
	v = max(v, 0)
	return &v
}

func (d DropSet) expand(p prescription) Result {
	var l setList
	// baseSets-1 working sets plus the trigger set, all at base.
	l.straightSets(p.sets, p.weight, p.reps)

	pct := min(max(d.DropPercentage, 0), 100)
	reps := max(dropSetMinReps, p.reps-dropSetRepDrop)
	w := RoundToHalf(p.weight)
	for range max(d.Drops, 0) {
		w = RoundToHalf(w * (1 - pct/100))
		l.add(w, reps, LabelDrop, seconds(dropSetRestSeconds))
	}
	return Result{VirtualSets: l, IsSupported: true}
}

func (rp RestPause) expand(p prescription) Result {
	var l setList
	l.straightSets(p.sets, p.weight, p.reps)

	reps := max(restPauseMinReps, p.reps/restPauseRepDivide)
	for range max(rp.MiniSets, 0) {
		l.add(RoundToHalf(p.weight), reps, LabelRestPause, seconds(rp.RestSeconds))
	}
	return Result{VirtualSets: l, IsSupported: true}
}

func (m MyoReps) expand(p prescription) Result {
	activation := m.ActivationReps
	if activation <= 0 {
		activation = p.reps
	}

	var l setList
	// baseSets-1 sets plus the activation set, all at activation reps.
	l.straightSets(p.sets, p.weight, activation)
	for range max(m.MiniSets, 0) {
		l.add(RoundToHalf(p.weight), max(m.MiniSetReps, 0), LabelMyo, seconds(m.RestSeconds))
	}
	return Result{VirtualSets: l, IsSupported: true}
}

func (c ClusterSet) expand(p prescription) Result {
	clusters := max(c.Clusters, 0)
	perCluster := max(c.RepsPerCluster, 0)

	var l setList
	// Leading sets carry the cluster's total reps so volume matches.
	l.straightSets(p.sets-1, p.weight, perCluster*clusters)
	for range clusters {
		l.add(RoundToHalf(p.weight), perCluster, LabelCluster, seconds(c.IntraRestSeconds))
	}
	return Result{VirtualSets: l, IsSupported: true}
}

func (f FST7) expand(p prescription) Result {
	reps := f.TargetReps
	if reps <= 0 {
		reps = p.reps
	}

	var l setList
	for range fst7Sets {
		l.add(RoundToHalf(p.weight), reps, LabelFST7, seconds(f.RestSeconds))
	}
	return Result{VirtualSets: l, IsSupported: true}
}
