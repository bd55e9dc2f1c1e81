// Package technique expands advanced set techniques (drop sets, rest-pause,
// myo-reps, cluster sets, FST-7) into the ordered list of sets a lifter
// performs.
//
// Technique is a closed sum type: the interface is sealed by an unexported
// method, and every variant carries its own expansion handler, so a new
// variant cannot be added without deciding how it expands.
package technique

// Type is the wire tag of a technique variant.
type Type string

const (
	TypeDropSet            Type = "drop_set"
	TypeRestPause          Type = "rest_pause"
	TypeMyoReps            Type = "myo_reps"
	TypeClusterSet         Type = "cluster_set"
	TypeFST7               Type = "fst7_protocol"
	TypeSuperset           Type = "superset"
	TypeGiantSet           Type = "giant_set"
	TypeTopSetBackoff      Type = "top_set_backoff"
	TypePyramid            Type = "pyramid"
	TypeMechanicalDropSet  Type = "mechanical_drop_set"
	TypeLoadedStretching   Type = "loaded_stretching"
	TypeForcedReps         Type = "forced_reps"
	TypePreExhaust         Type = "pre_exhaust"
	TypeLengthenedPartials Type = "lengthened_partials"
)

// Technique is an applied technique with its configuration.
type Technique interface {
	Type() Type
	expand(p prescription) Result
}

// DropSet strips weight after the trigger set and continues without rest.
type DropSet struct {
	Drops          int     `json:"drops"`
	DropPercentage float64 `json:"drop_percentage"`
}

// RestPause extends the trigger set with short mini-sets at the same load.
type RestPause struct {
	MiniSets    int `json:"mini_sets"`
	RestSeconds int `json:"rest_seconds"`
}

// MyoReps is an activation set followed by short mini-sets.
type MyoReps struct {
	ActivationReps int `json:"activation_reps"`
	MiniSets       int `json:"mini_sets"`
	MiniSetReps    int `json:"mini_set_reps"`
	RestSeconds    int `json:"rest_seconds"`
}

// ClusterSet splits the final set into clusters with intra-set rest.
type ClusterSet struct {
	Clusters         int `json:"clusters"`
	RepsPerCluster   int `json:"reps_per_cluster"`
	IntraRestSeconds int `json:"intra_rest_seconds"`
}

// FST7 is seven pump sets with short rest, regardless of prescribed sets.
type FST7 struct {
	TargetReps  int `json:"target_reps"`
	RestSeconds int `json:"rest_seconds"`
}

type Superset struct {
	PairedExercise string `json:"paired_exercise,omitempty"`
}

type GiantSet struct {
	Exercises []string `json:"exercises,omitempty"`
}

type TopSetBackoff struct {
	BackoffSets       int     `json:"backoff_sets,omitempty"`
	BackoffPercentage float64 `json:"backoff_percentage,omitempty"`
}

type Pyramid struct {
	Steps     int    `json:"steps,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type MechanicalDropSet struct {
	Variations []string `json:"variations,omitempty"`
}

type LoadedStretching struct {
	HoldSeconds int `json:"hold_seconds,omitempty"`
}

type ForcedReps struct {
	ForcedReps int `json:"forced_reps,omitempty"`
}

type PreExhaust struct {
	IsolationExercise string `json:"isolation_exercise,omitempty"`
}

type LengthenedPartials struct {
	PartialReps int `json:"partial_reps,omitempty"`
}

func (DropSet) Type() Type            { return TypeDropSet }
func (RestPause) Type() Type          { return TypeRestPause }
func (MyoReps) Type() Type            { return TypeMyoReps }
func (ClusterSet) Type() Type         { return TypeClusterSet }
func (FST7) Type() Type               { return TypeFST7 }
func (Superset) Type() Type           { return TypeSuperset }
func (GiantSet) Type() Type           { return TypeGiantSet }
func (TopSetBackoff) Type() Type      { return TypeTopSetBackoff }
func (Pyramid) Type() Type            { return TypePyramid }
func (MechanicalDropSet) Type() Type  { return TypeMechanicalDropSet }
func (LoadedStretching) Type() Type   { return TypeLoadedStretching }
func (ForcedReps) Type() Type         { return TypeForcedReps }
func (PreExhaust) Type() Type         { return TypePreExhaust }
func (LengthenedPartials) Type() Type { return TypeLengthenedPartials }

var (
	_ Technique = DropSet{}
	_ Technique = RestPause{}
	_ Technique = MyoReps{}
	_ Technique = ClusterSet{}
	_ Technique = FST7{}
	_ Technique = Superset{}
	_ Technique = GiantSet{}
	_ Technique = TopSetBackoff{}
	_ Technique = Pyramid{}
	_ Technique = MechanicalDropSet{}
	_ Technique = LoadedStretching{}
	_ Technique = ForcedReps{}
	_ Technique = PreExhaust{}
	_ Technique = LengthenedPartials{}
)

// AllTypes lists every technique tag.
func AllTypes() []Type {
	return []Type{
		TypeDropSet, TypeRestPause, TypeMyoReps, TypeClusterSet, TypeFST7,
		TypeSuperset, TypeGiantSet, TypeTopSetBackoff, TypePyramid,
		TypeMechanicalDropSet, TypeLoadedStretching, TypeForcedReps,
		TypePreExhaust, TypeLengthenedPartials,
	}
}

// ListSupportedTypes lists the techniques that expand into distinct sets.
func ListSupportedTypes() []Type {
	return []Type{TypeDropSet, TypeRestPause, TypeMyoReps, TypeClusterSet, TypeFST7}
}

// IsSupportedInSimpleMode reports whether a technique can be rendered as a
// flat set list for a single exercise.
func IsSupportedInSimpleMode(t Type) bool {
	switch t {
	case TypeDropSet, TypeRestPause, TypeMyoReps, TypeClusterSet, TypeFST7:
		return true
	}
	return false
}

// Info describes one technique in a listing.
type Info struct {
	Type      Type `json:"type"`
	Supported bool `json:"supported"`
}

// Catalog lists every technique with its support flag, in AllTypes order.
func Catalog() []Info {
	types := AllTypes()
	out := make([]Info, len(types))
	for i, t := range types {
		out[i] = Info{Type: t, Supported: IsSupportedInSimpleMode(t)}
	}
	return out
}
