// Package volume classifies weekly set volume against MEV/MAV/MRV landmarks.
package volume

import (
	"fmt"

	"github.com/claude/liftplan/internal/models"
)

// DefaultApproach names the landmark table shipped with the binary.
const DefaultApproach = "hypertrophy"

// Landmark holds the weekly set landmarks for one muscle.
type Landmark struct {
	Muscle models.MuscleGroup `json:"muscle" yaml:"muscle"`
	MEV    int                `json:"mev" yaml:"mev"`
	MAV    int                `json:"mav" yaml:"mav"`
	MRV    int                `json:"mrv" yaml:"mrv"`
}

// Validate checks 0 <= MEV < MAV < MRV.
func (l Landmark) Validate() error {
	if l.MEV < 0 {
		return fmt.Errorf("%s: mev must not be negative (got %d)", l.Muscle, l.MEV)
	}
	if l.MEV >= l.MAV {
		return fmt.Errorf("%s: mev (%d) must be below mav (%d)", l.Muscle, l.MEV, l.MAV)
	}
	if l.MAV >= l.MRV {
		return fmt.Errorf("%s: mav (%d) must be below mrv (%d)", l.Muscle, l.MAV, l.MRV)
	}
	return nil
}

// Weekly sets per muscle for the hypertrophy approach.
var hypertrophyLandmarks = []Landmark{
	{Muscle: models.Chest, MEV: 10, MAV: 14, MRV: 20},
	{Muscle: models.Back, MEV: 10, MAV: 16, MRV: 22},
	{Muscle: models.Lats, MEV: 8, MAV: 14, MRV: 20},
	{Muscle: models.Traps, MEV: 4, MAV: 12, MRV: 20},
	{Muscle: models.Shoulders, MEV: 8, MAV: 14, MRV: 20},
	{Muscle: models.SideDelts, MEV: 8, MAV: 16, MRV: 24},
	{Muscle: models.RearDelts, MEV: 6, MAV: 12, MRV: 18},
	{Muscle: models.Biceps, MEV: 6, MAV: 12, MRV: 18},
	{Muscle: models.Triceps, MEV: 6, MAV: 10, MRV: 14},
	{Muscle: models.Forearms, MEV: 2, MAV: 8, MRV: 14},
	{Muscle: models.Quads, MEV: 8, MAV: 14, MRV: 18},
	{Muscle: models.Hamstrings, MEV: 6, MAV: 10, MRV: 16},
	{Muscle: models.Glutes, MEV: 4, MAV: 10, MRV: 16},
	{Muscle: models.Calves, MEV: 8, MAV: 12, MRV: 16},
	{Muscle: models.Abs, MEV: 0, MAV: 8, MRV: 16},
}

// DefaultLandmarks returns a fresh copy of the built-in landmark table keyed by muscle.
func DefaultLandmarks() map[models.MuscleGroup]Landmark {
	out := make(map[models.MuscleGroup]Landmark, len(hypertrophyLandmarks))
	for _, l := range hypertrophyLandmarks {
		out[l.Muscle] = l
	}
	return out
}
