package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/models"
	"github.com/claude/repforge/internal/storage"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths
// and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestQuerySetsWindow verifies the HTTP client sends RFC3339 range params
// and parses the JSON array response.
func TestQuerySetsWindow(t *testing.T) {
	setID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sets": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}
			writeTestJSON(t, w, []models.LoggedSet{
				{ID: setID, WeightLbs: 135, Reps: 10, PerformedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	sets, err := client.QuerySetsWindow(context.Background(), 1, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(sets))
	}
	if sets[0].ID != setID {
		t.Errorf("id = %s, want %s", sets[0].ID, setID)
	}
}

// TestQuerySetsWindowKeepsEngagement verifies the engagement map survives
// the wire, so fatigue computation over remotely fetched sets sees every
// muscle the storage-layer join resolved.
func TestQuerySetsWindowKeepsEngagement(t *testing.T) {
	rpe := 7
	performed := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sets": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.LoggedSet{
				{
					ID:          uuid.New(),
					ExerciseID:  uuid.New(),
					WeightLbs:   135,
					Reps:        10,
					Exertion:    &rpe,
					PerformedAt: performed,
					Engagement:  models.EngagementMap{"Pectoralis_Major": 85},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sets, err := client.QuerySetsWindow(context.Background(), 1, performed.AddDate(0, 0, -7), performed.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(sets))
	}
	if sets[0].Engagement["Pectoralis_Major"] != 85 {
		t.Fatalf("engagement = %v, want Pectoralis_Major:85", sets[0].Engagement)
	}

	states := fatigue.Compute(sets, performed, fatigue.DefaultConfig())
	if _, ok := states["Pectoralis_Major"]; !ok {
		t.Errorf("computed states = %v, want Pectoralis_Major entry", states)
	}
}

// TestBestSetsSince verifies the since param format and decoding.
func TestBestSetsSince(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sets/best": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("since"); got != "2026-02-08" {
				t.Errorf("since=%q, want 2026-02-08", got)
			}
			writeTestJSON(t, w, []fatigue.ExerciseBest{
				{ExerciseID: uuid.New(), Name: "Bench Press", WeightLbs: 185, Reps: 5},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	since := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)

	bests, err := client.BestSetsSince(context.Background(), 1, since)
	if err != nil {
		t.Fatal(err)
	}
	if len(bests) != 1 || bests[0].Name != "Bench Press" {
		t.Fatalf("bests = %+v, want single Bench Press entry", bests)
	}
}

// TestLatestMuscleStates verifies the wrapped muscle array is re-keyed
// into a map by muscle name.
func TestLatestMuscleStates(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/muscle-states": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, map[string]any{
				"muscles": []models.MuscleFatigueState{
					{MuscleName: "Quadriceps", FatiguePct: 55},
					{MuscleName: "Biceps_Brachii", FatiguePct: 10},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	states, err := client.LatestMuscleStates(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 {
		t.Fatalf("got %d states, want 2", len(states))
	}
	if states["Quadriceps"].FatiguePct != 55 {
		t.Errorf("Quadriceps fatigue = %v, want 55", states["Quadriceps"].FatiguePct)
	}
}

// TestMuscleHistory verifies path escaping and the wrapped history array.
func TestMuscleHistory(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/muscle-states/Pectoralis_Major/history": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("days"); got != "30" {
				t.Errorf("days=%q, want 30", got)
			}
			writeTestJSON(t, w, map[string]any{
				"history": []models.MuscleFatigueState{{MuscleName: "Pectoralis_Major", FatiguePct: 40}},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	history, err := client.MuscleHistory(context.Background(), 1, "Pectoralis_Major", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d entries, want 1", len(history))
	}
}

// TestGetDataStats verifies single-struct decoding.
func TestGetDataStats(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, storage.DataStats{TotalSets: 240, PersonalBests: 12})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	stats, err := client.GetDataStats(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSets != 240 {
		t.Errorf("total_sets = %d, want 240", stats.TotalSets)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface as errors.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.GetDataStats(context.Background(), 1); err == nil {
		t.Error("expected error for 500 response")
	}
}
