package split

import (
	"fmt"
	"math"
	"strings"

	"github.com/claude/liftplan/internal/models"
)

// Aggressiveness scales specialization volume above baseline.
type Aggressiveness string

const (
	Moderate Aggressiveness = "moderate"
	High     Aggressiveness = "high"
	VeryHigh Aggressiveness = "very_high"
)

var volumeMultipliers = map[Aggressiveness]float64{
	Moderate: 1.3,
	High:     1.5,
	VeryHigh: 1.8,
}

// ParseAggressiveness accepts "moderate", "high" or "very_high"
// (case-insensitive, "very high" and "very-high" too).
func ParseAggressiveness(s string) (Aggressiveness, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	a := Aggressiveness(norm)
	if _, ok := volumeMultipliers[a]; !ok {
		return "", fmt.Errorf("unknown aggressiveness %q", s)
	}
	return a, nil
}

// SpecializationVolume is the weekly set budget for a specialization muscle.
type SpecializationVolume struct {
	TotalVolume      int     `json:"total_volume"`
	VolumeMultiplier float64 `json:"volume_multiplier"`
	VolumePerSession int     `json:"volume_per_session"`
}

// Multiplier returns the volume multiplier for a level. Unknown levels are moderate.
func Multiplier(a Aggressiveness) float64 {
	if m, ok := volumeMultipliers[a]; ok {
		return m
	}
	return volumeMultipliers[Moderate]
}

// CalculateSpecializationVolume scales baseVolume and spreads it over frequency sessions.
func CalculateSpecializationVolume(baseVolume, frequency int, aggressiveness Aggressiveness) SpecializationVolume {
	if frequency <= 0 {
		frequency = 1
	}
	mult := Multiplier(aggressiveness)
	total := int(math.Round(float64(baseVolume) * mult))
	return SpecializationVolume{
		TotalVolume:      total,
		VolumeMultiplier: mult,
		VolumePerSession: int(math.Round(float64(total) / float64(frequency))),
	}
}

// FrequencyRange is a recommended number of sessions per week.
type FrequencyRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Optimal int `json:"optimal"`
}

var frequencyBands = map[models.MuscleSize]FrequencyRange{
	models.SizeSmall:  {Min: 3, Max: 6, Optimal: 4},
	models.SizeMedium: {Min: 2, Max: 5, Optimal: 3},
	models.SizeLarge:  {Min: 2, Max: 4, Optimal: 3},
}

// RecommendedFrequency returns the weekly frequency band for a muscle's size class.
func RecommendedFrequency(muscle models.MuscleGroup) FrequencyRange {
	return frequencyBands[models.SizeOf(muscle)]
}
