// Package reminder turns an event and its offsets into notification records.
package reminder

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"github.com/aliskhannn/push-reminder/internal/model"
)

var (
	ErrInvalidOffset = errors.New("invalid reminder offset")
	ErrInvalidDue    = errors.New("invalid due date or time")
	ErrEmptyTitle    = errors.New("event title is empty")
)

var clockLayouts = []string{"15:04", "15:04:05"}

// DueInstant interprets date (YYYY-MM-DD) and clock (HH:MM or HH:MM:SS) as a
// wall-clock time in loc and returns the absolute instant.
func DueInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation("2006-01-02 "+layout, date+" "+clock, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidDue, date, clock)
}

// Materialize builds one unsent record per subscriber and offset. Offsets are
// hours before due; sendAt is truncated to the second and stored in UTC.
func Materialize(event model.Event, due time.Time, offsets []float64, subscribers []uuid.UUID) ([]model.Notification, error) {
	title := strings.TrimSpace(event.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	if err := ValidateOffsets(offsets); err != nil {
		return nil, err
	}

	records := make([]model.Notification, 0, len(subscribers)*len(offsets))
	for _, userID := range subscribers {
		for _, o := range offsets {
			records = append(records, model.Notification{
				UserID:  userID,
				EventID: event.ID,
				Title:   "Reminder: " + title,
				Body:    Phrase(o),
				SendAt:  SendAt(due, o),
			})
		}
	}

	return records, nil
}

// SendAt returns due minus offset hours, in UTC, truncated to the second.
func SendAt(due time.Time, offset float64) time.Time {
	d := time.Duration(offset * float64(time.Hour))
	return due.Add(-d).UTC().Truncate(time.Second)
}

// Phrase renders the body for an offset: minutes below one hour, whole hours
// otherwise.
func Phrase(offset float64) string {
	if offset < 1 {
		minutes := int(math.Round(offset * 60))
		switch minutes {
		case 0:
			return "Due now"
		case 1:
			return "Due in 1 minute"
		case 60:
			return "Due in 1 hour"
		default:
			return fmt.Sprintf("Due in %d minutes", minutes)
		}
	}

	hours := int(math.Floor(offset))
	if hours == 1 {
		return "Due in 1 hour"
	}

	return fmt.Sprintf("Due in %d hours", hours)
}

// ParseOffsets reads a comma-separated list of hours such as "5, 2, 0.5".
// Empty items are ignored; repeated values are kept once.
func ParseOffsets(s string) ([]float64, error) {
	var (
		offsets []float64
		seen    = map[float64]struct{}{}
	)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOffset, part)
		}
		if err := validateOffset(v); err != nil {
			return nil, err
		}

		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		offsets = append(offsets, v)
	}

	return offsets, nil
}

// FormatOffsets is the inverse of ParseOffsets.
func FormatOffsets(offsets []float64) string {
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.FormatFloat(o, 'f', -1, 64)
	}

	return strings.Join(parts, ", ")
}

// ValidateOffsets rejects negative, NaN and infinite offsets.
func ValidateOffsets(offsets []float64) error {
	for _, o := range offsets {
		if err := validateOffset(o); err != nil {
			return err
		}
	}

	return nil
}

func validateOffset(o float64) error {
	if math.IsNaN(o) || math.IsInf(o, 0) || o < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidOffset, o)
	}

	return nil
}
