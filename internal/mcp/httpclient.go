package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/models"
	"github.com/claude/repforge/internal/storage"
)

// HTTPClient implements DataSource by calling the RepForge REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) QuerySetsWindow(ctx context.Context, _ int, start, end time.Time) ([]models.LoggedSet, error) {
	body, err := c.get(ctx, "/api/v1/sets", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var sets []models.LoggedSet
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) BestSetsSince(ctx context.Context, _ int, since time.Time) ([]fatigue.ExerciseBest, error) {
	params := url.Values{}
	params.Set("since", since.Format("2006-01-02"))

	body, err := c.get(ctx, "/api/v1/sets/best", params)
	if err != nil {
		return nil, err
	}

	var bests []fatigue.ExerciseBest
	if err := json.Unmarshal(body, &bests); err != nil {
		return nil, fmt.Errorf("httpclient: decode best sets: %w", err)
	}
	return bests, nil
}

func (c *HTTPClient) LatestMuscleStates(ctx context.Context, _ int) (map[string]models.MuscleFatigueState, error) {
	body, err := c.get(ctx, "/api/v1/muscle-states", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Muscles []models.MuscleFatigueState `json:"muscles"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode muscle states: %w", err)
	}

	states := make(map[string]models.MuscleFatigueState, len(resp.Muscles))
	for _, state := range resp.Muscles {
		states[state.MuscleName] = state
	}
	return states, nil
}

func (c *HTTPClient) MuscleHistory(ctx context.Context, _ int, muscle string, daysBack int) ([]models.MuscleFatigueState, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(daysBack))

	body, err := c.get(ctx, "/api/v1/muscle-states/"+url.PathEscape(muscle)+"/history", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		History []models.MuscleFatigueState `json:"history"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode muscle history: %w", err)
	}
	return resp.History, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
