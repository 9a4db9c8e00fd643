package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EngagementMap maps a muscle name to its engagement percentage (0-100)
// for one exercise. Immutable after catalog entry creation.
type EngagementMap map[string]int

// Validate checks that every percentage is within 0-100 and at least one
// muscle has engagement above zero. Catalog entries with no meaningful
// engagement are rejected here, never inside the fatigue calculator.
func (m EngagementMap) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("engagement map is empty")
	}
	hasEngagement := false
	for muscle, pct := range m {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("engagement for %s out of range: %d", muscle, pct)
		}
		if pct > 0 {
			hasEngagement = true
		}
	}
	if !hasEngagement {
		return fmt.Errorf("engagement map has no muscle above 0%%")
	}
	return nil
}

// PrimaryMuscles returns the muscles engaged above the given threshold,
// used by the recommender to decide which exercises an uncovered muscle
// qualifies for.
func (m EngagementMap) PrimaryMuscles(thresholdPct int) []string {
	var primary []string
	for muscle, pct := range m {
		if pct > thresholdPct {
			primary = append(primary, muscle)
		}
	}
	return primary
}

// Exercise is one catalog entry with its per-muscle engagement percentages.
type Exercise struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Equipment  string        `json:"equipment,omitempty"`
	Engagement EngagementMap `json:"muscle_engagement"`
	IsActive   bool          `json:"is_active"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Validate checks catalog-entry invariants before insertion.
func (e *Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("exercise name is required")
	}
	if err := e.Engagement.Validate(); err != nil {
		return fmt.Errorf("exercise %s: %w", e.Name, err)
	}
	return nil
}
