package models

import (
	"fmt"
	"strings"
)

// MuscleGroup identifies a trainable muscle from the fixed vocabulary.
type MuscleGroup string

const (
	Chest      MuscleGroup = "chest"
	Back       MuscleGroup = "back"
	Lats       MuscleGroup = "lats"
	Traps      MuscleGroup = "traps"
	Shoulders  MuscleGroup = "shoulders"
	SideDelts  MuscleGroup = "side_delts"
	RearDelts  MuscleGroup = "rear_delts"
	Biceps     MuscleGroup = "biceps"
	Triceps    MuscleGroup = "triceps"
	Forearms   MuscleGroup = "forearms"
	Quads      MuscleGroup = "quads"
	Hamstrings MuscleGroup = "hamstrings"
	Glutes     MuscleGroup = "glutes"
	Calves     MuscleGroup = "calves"
	Abs        MuscleGroup = "abs"
)

// AllMuscleGroups lists the vocabulary in display order.
func AllMuscleGroups() []MuscleGroup {
	return []MuscleGroup{
		Chest, Back, Lats, Traps, Shoulders, SideDelts, RearDelts,
		Biceps, Triceps, Forearms, Quads, Hamstrings, Glutes, Calves, Abs,
	}
}

// ParseMuscleGroup normalizes user input ("Side Delts", "side-delts") to a
// MuscleGroup. Unknown names are rejected.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, m := range AllMuscleGroups() {
		if string(m) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown muscle group %q", s)
}

// MuscleSize drives recovery-frequency defaults.
type MuscleSize string

const (
	SizeSmall  MuscleSize = "small"
	SizeMedium MuscleSize = "medium"
	SizeLarge  MuscleSize = "large"
)

// BodyFocus selects the complementary workout rotation for a split.
type BodyFocus string

const (
	FocusUpper    BodyFocus = "upper"
	FocusLower    BodyFocus = "lower"
	FocusCoreArms BodyFocus = "core_arms"
)

var muscleSizes = map[MuscleGroup]MuscleSize{
	Chest:      SizeLarge,
	Back:       SizeLarge,
	Lats:       SizeLarge,
	Quads:      SizeLarge,
	Hamstrings: SizeLarge,
	Glutes:     SizeLarge,
	Traps:      SizeMedium,
	Shoulders:  SizeMedium,
	SideDelts:  SizeSmall,
	RearDelts:  SizeSmall,
	Biceps:     SizeSmall,
	Triceps:    SizeSmall,
	Forearms:   SizeSmall,
	Calves:     SizeSmall,
	Abs:        SizeSmall,
}

var muscleFocus = map[MuscleGroup]BodyFocus{
	Chest:      FocusUpper,
	Back:       FocusUpper,
	Lats:       FocusUpper,
	Traps:      FocusUpper,
	Shoulders:  FocusUpper,
	SideDelts:  FocusUpper,
	RearDelts:  FocusUpper,
	Quads:      FocusLower,
	Hamstrings: FocusLower,
	Glutes:     FocusLower,
	Calves:     FocusLower,
	Biceps:     FocusCoreArms,
	Triceps:    FocusCoreArms,
	Forearms:   FocusCoreArms,
	Abs:        FocusCoreArms,
}

// SizeOf returns the size class of a muscle. Unknown muscles are medium.
func SizeOf(m MuscleGroup) MuscleSize {
	if s, ok := muscleSizes[m]; ok {
		return s
	}
	return SizeMedium
}

// FocusOf returns the body focus of a muscle. Unknown muscles count as upper body.
func FocusOf(m MuscleGroup) BodyFocus {
	if f, ok := muscleFocus[m]; ok {
		return f
	}
	return FocusUpper
}

// WorkoutType labels a training day in a split.
type WorkoutType string

const (
	WorkoutChest     WorkoutType = "chest"
	WorkoutBack      WorkoutType = "back"
	WorkoutShoulders WorkoutType = "shoulders"
	WorkoutArms      WorkoutType = "arms"
	WorkoutLegs      WorkoutType = "legs"
	WorkoutCore      WorkoutType = "core"
	WorkoutPush      WorkoutType = "push"
	WorkoutPull      WorkoutType = "pull"
	WorkoutUpper     WorkoutType = "upper"
	WorkoutLower     WorkoutType = "lower"
	WorkoutFullBody  WorkoutType = "full_body"
	WorkoutRest      WorkoutType = "rest"
)
