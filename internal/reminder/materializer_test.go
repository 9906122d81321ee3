package reminder

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/push-reminder/internal/model"
)

func kolkata(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	return loc
}

func TestDueInstant(t *testing.T) {
	loc := kolkata(t)

	due, err := DueInstant("2025-03-10", "10:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC), due.UTC())

	due, err = DueInstant("2025-03-10", "10:00:30", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 4, 30, 30, 0, time.UTC), due.UTC())

	_, err = DueInstant("10/03/2025", "10:00", loc)
	assert.ErrorIs(t, err, ErrInvalidDue)

	_, err = DueInstant("2025-03-10", "25:00", loc)
	assert.ErrorIs(t, err, ErrInvalidDue)
}

func TestMaterialize_ThreeOffsets(t *testing.T) {
	due, err := DueInstant("2025-03-10", "10:00", kolkata(t))
	require.NoError(t, err)

	eventID := uuid.New()
	userID := uuid.New()
	event := model.Event{ID: &eventID, Title: "Physics midterm"}

	records, err := Materialize(event, due, []float64{5, 2, 0.0333}, []uuid.UUID{userID})
	require.NoError(t, err)
	require.Len(t, records, 3)

	want := []struct {
		sendAt time.Time
		body   string
	}{
		{time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC), "Due in 5 hours"},
		{time.Date(2025, 3, 10, 3, 30, 0, 0, time.UTC), "Due in 2 hours"},
		{time.Date(2025, 3, 10, 4, 28, 0, 0, time.UTC), "Due in 2 minutes"},
	}

	for i, w := range want {
		r := records[i]
		assert.True(t, w.sendAt.Equal(r.SendAt), "record %d: got %s", i, r.SendAt)
		assert.Equal(t, time.UTC, r.SendAt.Location())
		assert.Equal(t, w.body, r.Body)
		assert.Equal(t, "Reminder: Physics midterm", r.Title)
		assert.Equal(t, userID, r.UserID)
		assert.Equal(t, &eventID, r.EventID)
		assert.False(t, r.Sent)
		assert.Nil(t, r.SentAt)
	}
}

func TestMaterialize_SubscribersTimesOffsets(t *testing.T) {
	due := time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC)
	subs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	records, err := Materialize(model.Event{Title: "Lab"}, due, []float64{1, 0}, subs)
	require.NoError(t, err)
	assert.Len(t, records, 6)
	assert.Equal(t, "Due now", records[1].Body)
	assert.True(t, due.Equal(records[1].SendAt))
	assert.Nil(t, records[0].EventID)
}

func TestMaterialize_RejectsInvalidOffsets(t *testing.T) {
	due := time.Now()
	subs := []uuid.UUID{uuid.New()}

	for _, o := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Materialize(model.Event{Title: "x"}, due, []float64{2, o}, subs)
		assert.ErrorIs(t, err, ErrInvalidOffset)
	}

	_, err := Materialize(model.Event{Title: "  "}, due, []float64{1}, subs)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestPhrase(t *testing.T) {
	tests := []struct {
		offset float64
		want   string
	}{
		{0, "Due now"},
		{0.0333, "Due in 2 minutes"},
		{1.0 / 60, "Due in 1 minute"},
		{0.5, "Due in 30 minutes"},
		{0.99, "Due in 59 minutes"},
		{0.9917, "Due in 1 hour"},
		{0.999, "Due in 1 hour"},
		{1, "Due in 1 hour"},
		{1.75, "Due in 1 hour"},
		{5, "Due in 5 hours"},
		{24, "Due in 24 hours"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Phrase(tt.offset), "offset %v", tt.offset)
	}
}

func TestParseOffsets(t *testing.T) {
	got, err := ParseOffsets(" 5, 2,,0.5, 2 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 2, 0.5}, got)

	got, err = ParseOffsets("")
	assert.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseOffsets("5, soon")
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = ParseOffsets("-1")
	assert.ErrorIs(t, err, ErrInvalidOffset)

	assert.Equal(t, "5, 2, 0.5", FormatOffsets([]float64{5, 2, 0.5}))
}
