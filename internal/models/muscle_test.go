package models

import "testing"

// TestGroupOf verifies the static classification table for representative
// muscles in each group.
func TestGroupOf(t *testing.T) {
	cases := []struct {
		muscle string
		want   MuscleGroup
	}{
		{"Pectoralis_Major", GroupPush},
		{"Triceps_Brachii", GroupPush},
		{"Anterior_Deltoid", GroupPush},
		{"Latissimus_Dorsi", GroupPull},
		{"Biceps_Brachii", GroupPull},
		{"Trapezius", GroupPull},
		{"Quadriceps", GroupLegs},
		{"Hamstrings", GroupLegs},
		{"Gastrocnemius", GroupLegs},
		{"Abs", GroupCore},
		{"Obliques", GroupCore},
	}
	for _, tc := range cases {
		if got := GroupOf(tc.muscle); got != tc.want {
			t.Errorf("GroupOf(%q) = %v, want %v", tc.muscle, got, tc.want)
		}
	}
}

// TestGroupOfUnknown verifies unknown names fall through to Other.
func TestGroupOfUnknown(t *testing.T) {
	for _, name := range []string{"", "Sternocleidomastoid", "pectoralis_major"} {
		if got := GroupOf(name); got != GroupOther {
			t.Errorf("GroupOf(%q) = %v, want Other", name, got)
		}
	}
}

// TestKnownMusclesClassified verifies every table entry has a non-Other
// group, guarding against typos silently falling through.
func TestKnownMusclesClassified(t *testing.T) {
	for _, name := range KnownMuscles() {
		if GroupOf(name) == GroupOther {
			t.Errorf("known muscle %q classified as Other", name)
		}
	}
}
