// Package importer loads logged-set CSV exports into the database,
// tracking already-imported files in a local SQLite state DB.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ParsedSet is one row of a logged-set CSV export, before exercise
// resolution against the catalog.
type ParsedSet struct {
	PerformedAt  time.Time
	ExerciseName string
	Equipment    string
	WeightLbs    float64
	Reps         int
	Exertion     *int
}

// expected CSV header, in order
var csvHeader = []string{"performed_at", "exercise", "equipment", "weight_lbs", "reps", "rpe"}

// Parse reads a logged-set CSV export. The first row must be the header;
// the rpe column may be empty. Timestamps accept RFC 3339,
// "2006-01-02 15:04", or a bare date.
func Parse(r io.Reader) ([]ParsedSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("header has %d columns, want %d", len(header), len(csvHeader))
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, header[i], want)
		}
	}

	var sets []ParsedSet
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		set, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func parseRecord(record []string) (ParsedSet, error) {
	performedAt, err := parseTimestamp(strings.TrimSpace(record[0]))
	if err != nil {
		return ParsedSet{}, fmt.Errorf("performed_at %q: %w", record[0], err)
	}

	name := strings.TrimSpace(record[1])
	if name == "" {
		return ParsedSet{}, fmt.Errorf("exercise name is empty")
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return ParsedSet{}, fmt.Errorf("weight %q: %w", record[3], err)
	}

	reps, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return ParsedSet{}, fmt.Errorf("reps %q: %w", record[4], err)
	}

	set := ParsedSet{
		PerformedAt:  performedAt,
		ExerciseName: name,
		Equipment:    strings.TrimSpace(record[2]),
		WeightLbs:    weight,
		Reps:         reps,
	}

	if raw := strings.TrimSpace(record[5]); raw != "" {
		rpe, err := strconv.Atoi(raw)
		if err != nil {
			return ParsedSet{}, fmt.Errorf("rpe %q: %w", record[5], err)
		}
		set.Exertion = &rpe
	}
	return set, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
