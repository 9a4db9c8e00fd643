package models

import "sort"

// MuscleGroup classifies a muscle into a body-region training group.
type MuscleGroup string

const (
	GroupPush  MuscleGroup = "Push"
	GroupPull  MuscleGroup = "Pull"
	GroupLegs  MuscleGroup = "Legs"
	GroupCore  MuscleGroup = "Core"
	GroupOther MuscleGroup = "Other"
)

// muscleGroups maps canonical muscle names to their training group.
// Names follow the catalog convention of underscore-separated anatomy terms.
var muscleGroups = map[string]MuscleGroup{
	// Push
	"Pectoralis_Major":  GroupPush,
	"Pectoralis_Minor":  GroupPush,
	"Triceps_Brachii":   GroupPush,
	"Anterior_Deltoid":  GroupPush,
	"Lateral_Deltoid":   GroupPush,
	"Deltoids":          GroupPush,
	"Serratus_Anterior": GroupPush,

	// Pull
	"Latissimus_Dorsi":  GroupPull,
	"Rhomboids":         GroupPull,
	"Trapezius":         GroupPull,
	"Biceps_Brachii":    GroupPull,
	"Brachialis":        GroupPull,
	"Brachioradialis":   GroupPull,
	"Posterior_Deltoid": GroupPull,
	"Erector_Spinae":    GroupPull,
	"Forearms":          GroupPull,

	// Legs
	"Quadriceps":      GroupLegs,
	"Hamstrings":      GroupLegs,
	"Gluteus_Maximus": GroupLegs,
	"Gluteus_Medius":  GroupLegs,
	"Gastrocnemius":   GroupLegs,
	"Soleus":          GroupLegs,
	"Adductors":       GroupLegs,
	"Abductors":       GroupLegs,
	"Hip_Flexors":     GroupLegs,

	// Core
	"Abs":                  GroupCore,
	"Rectus_Abdominis":     GroupCore,
	"Obliques":             GroupCore,
	"Transverse_Abdominis": GroupCore,
	"Lower_Back":           GroupCore,
}

// GroupOf returns the training group for a canonical muscle name.
// Unknown names fall through to GroupOther.
func GroupOf(muscle string) MuscleGroup {
	if g, ok := muscleGroups[muscle]; ok {
		return g
	}
	return GroupOther
}

// KnownMuscles returns all canonical muscle names in the grouping table,
// sorted for stable output.
func KnownMuscles() []string {
	names := make([]string, 0, len(muscleGroups))
	for name := range muscleGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
