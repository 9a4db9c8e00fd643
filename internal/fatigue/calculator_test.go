package fatigue

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/claude/repforge/internal/models"
	"github.com/google/uuid"
)

var benchEngagement = models.EngagementMap{
	"Pectoralis_Major": 85,
	"Triceps_Brachii":  20,
}

// testSet builds a logged set N days before asOf.
func testSet(asOf time.Time, daysAgo int, weight float64, reps int, exertion *int, engagement models.EngagementMap) models.LoggedSet {
	return models.LoggedSet{
		ID:          uuid.New(),
		UserID:      1,
		ExerciseID:  uuid.New(),
		WeightLbs:   weight,
		Reps:        reps,
		Exertion:    exertion,
		PerformedAt: asOf.AddDate(0, 0, -daysAgo),
		Engagement:  engagement,
	}
}

func intPtr(v int) *int { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var asOf = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// TestComputeSingleSet verifies the documented end-to-end scenario: one
// bench press set logged yesterday at 135x10 RPE 7.
func TestComputeSingleSet(t *testing.T) {
	sets := []models.LoggedSet{
		testSet(asOf, 1, 135, 10, intPtr(7), benchEngagement),
	}
	states := Compute(sets, asOf, DefaultConfig())

	if len(states) != 2 {
		t.Fatalf("got %d muscles, want 2", len(states))
	}

	// remaining = 0.8, exertion = 0.7, volume = 1.35
	wantPec := 0.85 * 1.35 * 0.7 * 0.8 * 10
	wantTri := 0.20 * 1.35 * 0.7 * 0.8 * 10

	pec := states["Pectoralis_Major"]
	if !almostEqual(pec.FatiguePct, wantPec) {
		t.Errorf("Pectoralis_Major fatigue = %v, want %v", pec.FatiguePct, wantPec)
	}
	if !almostEqual(pec.RecoveryPct, 100-wantPec) {
		t.Errorf("Pectoralis_Major recovery = %v, want %v", pec.RecoveryPct, 100-wantPec)
	}
	if pec.Group != models.GroupPush {
		t.Errorf("Pectoralis_Major group = %v, want Push", pec.Group)
	}
	if !almostEqual(pec.WeeklyVolumeLbs, 1350*0.85) {
		t.Errorf("Pectoralis_Major weekly volume = %v, want %v", pec.WeeklyVolumeLbs, 1350*0.85)
	}
	if pec.WeeklySets != 1 || pec.WeeklyTrainingDays != 1 {
		t.Errorf("Pectoralis_Major sets/days = %d/%d, want 1/1", pec.WeeklySets, pec.WeeklyTrainingDays)
	}
	// Fatigue below the 10% tracking threshold: no recovery projection.
	if pec.ExpectedRecoveryDate != nil {
		t.Errorf("Pectoralis_Major expected recovery = %v, want nil", pec.ExpectedRecoveryDate)
	}

	tri := states["Triceps_Brachii"]
	if !almostEqual(tri.FatiguePct, wantTri) {
		t.Errorf("Triceps_Brachii fatigue = %v, want %v", tri.FatiguePct, wantTri)
	}
	if tri.ExpectedRecoveryDate != nil {
		t.Errorf("Triceps_Brachii expected recovery = %v, want nil", tri.ExpectedRecoveryDate)
	}
}

// TestComputeIdempotent verifies repeated calls over the same input are
// bit-identical.
func TestComputeIdempotent(t *testing.T) {
	sets := []models.LoggedSet{
		testSet(asOf, 0, 225, 5, intPtr(9), benchEngagement),
		testSet(asOf, 2, 135, 10, nil, benchEngagement),
		testSet(asOf, 6, 185, 8, intPtr(6), benchEngagement),
	}
	cfg := DefaultConfig()

	first := Compute(sets, asOf, cfg)
	second := Compute(sets, asOf, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Compute calls differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestComputeWindowCutoff verifies the hard 7-day cutoff: day 7 is the
// last included day, day 8 is out.
func TestComputeWindowCutoff(t *testing.T) {
	cases := []struct {
		name     string
		daysAgo  int
		included bool
	}{
		{"same day", 0, true},
		{"seven days", 7, true},
		{"eight days", 8, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sets := []models.LoggedSet{
				testSet(asOf, tc.daysAgo, 135, 10, intPtr(7), benchEngagement),
			}
			states := Compute(sets, asOf, DefaultConfig())
			_, ok := states["Pectoralis_Major"]
			if ok != tc.included {
				t.Errorf("daysAgo=%d: muscle present = %v, want %v", tc.daysAgo, ok, tc.included)
			}
		})
	}
}

// TestComputeFullDecay verifies sets five or more days old contribute no
// fatigue regardless of volume and exertion, while still counting toward
// weekly volume and training days inside the window.
func TestComputeFullDecay(t *testing.T) {
	for _, daysAgo := range []int{5, 6, 7} {
		sets := []models.LoggedSet{
			testSet(asOf, daysAgo, 500, 20, intPtr(10), benchEngagement),
		}
		states := Compute(sets, asOf, DefaultConfig())
		pec, ok := states["Pectoralis_Major"]
		if !ok {
			t.Fatalf("daysAgo=%d: muscle missing from result", daysAgo)
		}
		if pec.FatiguePct != 0 {
			t.Errorf("daysAgo=%d: fatigue = %v, want 0", daysAgo, pec.FatiguePct)
		}
		if pec.WeeklySets != 1 {
			t.Errorf("daysAgo=%d: weekly sets = %d, want 1", daysAgo, pec.WeeklySets)
		}
	}
}

// TestComputeClamping verifies adversarially high volume never pushes
// fatigue above 100.
func TestComputeClamping(t *testing.T) {
	var sets []models.LoggedSet
	for i := 0; i < 50; i++ {
		sets = append(sets, testSet(asOf, 0, 500, 20, intPtr(10), benchEngagement))
	}
	states := Compute(sets, asOf, DefaultConfig())
	pec := states["Pectoralis_Major"]
	if pec.FatiguePct != 100 {
		t.Errorf("fatigue = %v, want exactly 100", pec.FatiguePct)
	}
	if pec.RecoveryPct != 0 {
		t.Errorf("recovery = %v, want 0", pec.RecoveryPct)
	}
	if pec.ExpectedRecoveryDate == nil {
		t.Error("expected recovery date missing for fully fatigued muscle")
	} else {
		want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
		if !pec.ExpectedRecoveryDate.Equal(want) {
			t.Errorf("expected recovery date = %v, want %v", pec.ExpectedRecoveryDate, want)
		}
	}
}

// TestComputeEngagementGating verifies a zero-engagement muscle never
// appears in the result even when other muscles on the same set do.
func TestComputeEngagementGating(t *testing.T) {
	engagement := models.EngagementMap{
		"Pectoralis_Major": 85,
		"Biceps_Brachii":   0,
	}
	sets := []models.LoggedSet{
		testSet(asOf, 1, 135, 10, intPtr(7), engagement),
	}
	states := Compute(sets, asOf, DefaultConfig())

	if _, ok := states["Biceps_Brachii"]; ok {
		t.Error("Biceps_Brachii present despite 0% engagement")
	}
	if _, ok := states["Pectoralis_Major"]; !ok {
		t.Error("Pectoralis_Major missing despite 85% engagement")
	}
}

// TestComputeZeroWeight verifies a bodyweight (0 lb) set contributes no
// fatigue but still marks the muscle as trained.
func TestComputeZeroWeight(t *testing.T) {
	sets := []models.LoggedSet{
		testSet(asOf, 1, 0, 15, intPtr(8), benchEngagement),
	}
	states := Compute(sets, asOf, DefaultConfig())

	pec, ok := states["Pectoralis_Major"]
	if !ok {
		t.Fatal("Pectoralis_Major missing")
	}
	if pec.FatiguePct != 0 {
		t.Errorf("fatigue = %v, want 0", pec.FatiguePct)
	}
	if pec.WeeklyTrainingDays != 1 {
		t.Errorf("training days = %d, want 1", pec.WeeklyTrainingDays)
	}
	if pec.LastTrained == nil {
		t.Error("last trained missing for zero-weight set")
	}
}

// TestComputeDefaultExertion verifies a set with no RPE uses mid-scale 5.
func TestComputeDefaultExertion(t *testing.T) {
	withRPE := Compute([]models.LoggedSet{
		testSet(asOf, 1, 135, 10, intPtr(5), benchEngagement),
	}, asOf, DefaultConfig())
	withoutRPE := Compute([]models.LoggedSet{
		testSet(asOf, 1, 135, 10, nil, benchEngagement),
	}, asOf, DefaultConfig())

	got := withoutRPE["Pectoralis_Major"].FatiguePct
	want := withRPE["Pectoralis_Major"].FatiguePct
	if !almostEqual(got, want) {
		t.Errorf("default-exertion fatigue = %v, want %v (same as explicit RPE 5)", got, want)
	}
}

// TestComputeEmptyHistory verifies no sets produce an empty mapping, not
// an error state.
func TestComputeEmptyHistory(t *testing.T) {
	states := Compute(nil, asOf, DefaultConfig())
	if len(states) != 0 {
		t.Errorf("got %d states from empty history, want 0", len(states))
	}
}

// TestComputeLastTrainedAcrossSets verifies the most recent training date
// wins when a muscle appears in multiple sets.
func TestComputeLastTrainedAcrossSets(t *testing.T) {
	sets := []models.LoggedSet{
		testSet(asOf, 4, 135, 10, intPtr(7), benchEngagement),
		testSet(asOf, 1, 155, 8, intPtr(8), benchEngagement),
		testSet(asOf, 3, 145, 9, intPtr(7), benchEngagement),
	}
	states := Compute(sets, asOf, DefaultConfig())

	pec := states["Pectoralis_Major"]
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if pec.LastTrained == nil || !pec.LastTrained.Equal(want) {
		t.Errorf("last trained = %v, want %v", pec.LastTrained, want)
	}
	if pec.WeeklySets != 3 {
		t.Errorf("weekly sets = %d, want 3", pec.WeeklySets)
	}
	if pec.WeeklyTrainingDays != 3 {
		t.Errorf("weekly training days = %d, want 3", pec.WeeklyTrainingDays)
	}
}

// TestComputeFutureSetExcluded verifies sets dated after asOf are ignored
// (recovery-timeline previews re-run the calculator at future dates).
func TestComputeFutureSetExcluded(t *testing.T) {
	sets := []models.LoggedSet{
		testSet(asOf, -1, 135, 10, intPtr(7), benchEngagement),
	}
	states := Compute(sets, asOf, DefaultConfig())
	if len(states) != 0 {
		t.Errorf("got %d states for future-dated set, want 0", len(states))
	}
}
