package plateau

import "math"

// Trigger names a fatigue signal counted toward a deload.
type Trigger string

const (
	TriggerStalledExercises Trigger = "stalled_exercises"
	TriggerOverMRV          Trigger = "over_mrv"
	TriggerLowRIR           Trigger = "low_rir"
)

// DeloadSignals summarizes the current training block.
type DeloadSignals struct {
	StalledExercises int `json:"stalled_exercises"`
	TotalExercises   int `json:"total_exercises"`
	MusclesOverMRV   int `json:"muscles_over_mrv"`
	// AverageRIR of recent working sets; nil when RIR was not tracked.
	AverageRIR *float64 `json:"average_rir,omitempty"`
}

// DeloadConfig sets the threshold of each trigger and how many must fire.
type DeloadConfig struct {
	// StalledShare is the fraction of exercises stalled or plateaued that fires
	// the stalled trigger.
	StalledShare float64 `yaml:"stalled_share" json:"stalled_share"`
	// OverMRVMuscles is the number of muscles above MRV that fires the volume trigger.
	OverMRVMuscles int `yaml:"over_mrv_muscles" json:"over_mrv_muscles"`
	// GrindRIR fires the effort trigger when the average RIR is at or below it.
	GrindRIR float64 `yaml:"grind_rir" json:"grind_rir"`
	// RequiredTriggers is how many triggers recommend a deload.
	RequiredTriggers int `yaml:"required_triggers" json:"required_triggers"`
}

// DefaultDeloadConfig returns the "2 of 3 triggers" rule.
func DefaultDeloadConfig() DeloadConfig {
	return DeloadConfig{
		StalledShare:     0.5,
		OverMRVMuscles:   1,
		GrindRIR:         1,
		RequiredTriggers: 2,
	}
}

// DeloadAssessment lists the triggers that fired and the verdict.
type DeloadAssessment struct {
	Recommended bool      `json:"recommended"`
	Triggers    []Trigger `json:"triggers"`
	Required    int       `json:"required"`
}

// AssessDeload recommends a deload when at least RequiredTriggers of the
// three fatigue triggers fire.
func AssessDeload(sig DeloadSignals, cfg DeloadConfig) DeloadAssessment {
	if cfg.RequiredTriggers <= 0 {
		cfg.RequiredTriggers = DefaultDeloadConfig().RequiredTriggers
	}
	if cfg.OverMRVMuscles <= 0 {
		cfg.OverMRVMuscles = DefaultDeloadConfig().OverMRVMuscles
	}

	triggers := []Trigger{}
	if sig.TotalExercises > 0 && sig.StalledExercises > 0 {
		share := float64(sig.StalledExercises) / float64(sig.TotalExercises)
		if share >= cfg.StalledShare {
			triggers = append(triggers, TriggerStalledExercises)
		}
	}
	if sig.MusclesOverMRV >= cfg.OverMRVMuscles {
		triggers = append(triggers, TriggerOverMRV)
	}
	if r := sig.AverageRIR; r != nil && !math.IsNaN(*r) && *r >= 0 && *r <= cfg.GrindRIR {
		triggers = append(triggers, TriggerLowRIR)
	}

	return DeloadAssessment{
		Recommended: len(triggers) >= cfg.RequiredTriggers,
		Triggers:    triggers,
		Required:    cfg.RequiredTriggers,
	}
}

// CountStalled returns how many results are stalled or plateaued.
func CountStalled(results []Result) int {
	n := 0
	for _, r := range results {
		if r.State != StateProgressing {
			n++
		}
	}
	return n
}
