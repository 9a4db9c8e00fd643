package fatigue

import (
	"testing"
	"time"

	"github.com/claude/repforge/internal/models"
)

// TestPredictRecoveryDateTiers verifies the tier boundaries map to the
// exact day offsets.
func TestPredictRecoveryDateTiers(t *testing.T) {
	trained := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		fatigue  float64
		wantDays int
	}{
		{100, 5},
		{80, 5},
		{79.9, 4},
		{60, 4},
		{59.9, 3},
		{40, 3},
		{39.9, 2},
		{20, 2},
		{19.9, 1},
		{10.1, 1},
	}
	for _, tc := range cases {
		got := PredictRecoveryDate(&trained, tc.fatigue)
		if got == nil {
			t.Errorf("fatigue=%v: got nil, want %d days", tc.fatigue, tc.wantDays)
			continue
		}
		want := trained.AddDate(0, 0, tc.wantDays)
		if !got.Equal(want) {
			t.Errorf("fatigue=%v: got %v, want %v", tc.fatigue, got, want)
		}
	}
}

// TestPredictRecoveryDateNegligible verifies no projection is made for
// untrained or already-recovered muscles.
func TestPredictRecoveryDateNegligible(t *testing.T) {
	trained := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := PredictRecoveryDate(nil, 90); got != nil {
		t.Errorf("nil last-trained: got %v, want nil", got)
	}
	if got := PredictRecoveryDate(&trained, 10); got != nil {
		t.Errorf("fatigue=10: got %v, want nil", got)
	}
	if got := PredictRecoveryDate(&trained, 0); got != nil {
		t.Errorf("fatigue=0: got %v, want nil", got)
	}
}

// TestRecoveryTimeline verifies projected fatigue declines day over day
// and reaches zero once the recovery span has passed.
func TestRecoveryTimeline(t *testing.T) {
	sets := []models.LoggedSet{
		testSet(asOf, 0, 315, 8, intPtr(9), benchEngagement),
	}
	timeline := RecoveryTimeline(sets, asOf, 7, DefaultConfig())

	if len(timeline) != 7 {
		t.Fatalf("got %d days, want 7", len(timeline))
	}
	if timeline[0].Date != "2026-03-10" {
		t.Errorf("first day = %s, want 2026-03-10", timeline[0].Date)
	}

	prev := timeline[0].Muscles["Pectoralis_Major"]
	if prev == 0 {
		t.Fatal("day 0 fatigue should be non-zero")
	}
	for d := 1; d < 5; d++ {
		cur := timeline[d].Muscles["Pectoralis_Major"]
		if cur >= prev {
			t.Errorf("day %d fatigue %v not below day %d fatigue %v", d, cur, d-1, prev)
		}
		prev = cur
	}
	if f := timeline[5].Muscles["Pectoralis_Major"]; f != 0 {
		t.Errorf("day 5 fatigue = %v, want 0 (full recovery)", f)
	}
}

// TestRecoveredMuscles verifies only muscles under the ready threshold
// are returned, sorted by name.
func TestRecoveredMuscles(t *testing.T) {
	states := map[string]models.MuscleFatigueState{
		"Quadriceps":       {MuscleName: "Quadriceps", FatiguePct: 75},
		"Pectoralis_Major": {MuscleName: "Pectoralis_Major", FatiguePct: 5},
		"Biceps_Brachii":   {MuscleName: "Biceps_Brachii", FatiguePct: 19.9},
		"Hamstrings":       {MuscleName: "Hamstrings", FatiguePct: 20},
	}
	got := RecoveredMuscles(states, DefaultConfig())
	want := []string{"Biceps_Brachii", "Pectoralis_Major"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recovered[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
