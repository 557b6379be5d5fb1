package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgo/internal/model"
)

func ts(t time.Time) model.Timestamp { return model.Timestamp{Time: t} }

func TestExpandSingleEvents(t *testing.T) {
	utc := time.UTC
	events := []model.Event{
		{ID: "late", Title: "Late", StartDate: ts(time.Date(2025, 5, 3, 18, 0, 0, 0, utc)), EndDate: ts(time.Date(2025, 5, 3, 20, 0, 0, 0, utc))},
		{ID: "early", Title: "Early", StartDate: ts(time.Date(2025, 5, 2, 9, 0, 0, 0, utc))},
		{ID: "outside", Title: "Outside", StartDate: ts(time.Date(2025, 6, 1, 9, 0, 0, 0, utc))},
		{ID: "cancelled", Title: "Off", Status: model.EventCancelled, StartDate: ts(time.Date(2025, 5, 2, 10, 0, 0, 0, utc))},
		{ID: "nostart", Title: "No start"},
	}

	res, err := Expand(events, ExpandConfig{
		DisplayLocation: utc,
		RangeStart:      time.Date(2025, 5, 1, 0, 0, 0, 0, utc),
		RangeEnd:        time.Date(2025, 5, 8, 0, 0, 0, 0, utc),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 2)

	assert.Equal(t, model.ID("early"), res.Occurrences[0].EventID)
	assert.Equal(t, time.Hour, res.Occurrences[0].End.Sub(res.Occurrences[0].Start), "missing end gets default duration")
	assert.Equal(t, model.ID("late"), res.Occurrences[1].EventID)
	assert.Empty(t, res.TruncatedEvents)
}

func TestExpandRecurringHonorsExcludedDates(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	start := time.Date(2025, 5, 5, 15, 0, 0, 0, time.UTC) // Monday
	ev := model.Event{
		ID:            "weekly",
		Title:         "Standup",
		StartDate:     ts(start),
		EndDate:       ts(start.Add(30 * time.Minute)),
		Recurrence:    "RRULE:FREQ=WEEKLY;BYDAY=MO",
		ExcludedDates: []model.Timestamp{ts(start.AddDate(0, 0, 7))},
	}

	res, err := Expand([]model.Event{ev}, ExpandConfig{
		DisplayLocation: lima,
		RangeStart:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var days []int
	for _, occ := range res.Occurrences {
		days = append(days, occ.Start.Day())
		assert.Equal(t, 30*time.Minute, occ.End.Sub(occ.Start))
		assert.Equal(t, lima, occ.Start.Location())
	}
	assert.Equal(t, []int{5, 19, 26}, days)
	assert.Equal(t, "weekly@2025-05-05T10:00:00-05:00", res.Occurrences[0].InstanceKey)
}

func TestExpandAllDayRecurring(t *testing.T) {
	ev := model.Event{
		ID:         "fair",
		Title:      "Fair",
		AllDay:     true,
		StartDate:  ts(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		Recurrence: "FREQ=DAILY;COUNT=3",
	}

	res, err := Expand([]model.Event{ev}, ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 3)
	for _, occ := range res.Occurrences {
		assert.True(t, occ.AllDay)
		assert.Equal(t, 24*time.Hour, occ.End.Sub(occ.Start))
		assert.Zero(t, occ.Start.Hour())
	}
}

func TestExpandCapsOccurrences(t *testing.T) {
	ev := model.Event{
		ID:         "hourly",
		StartDate:  ts(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:    ts(time.Date(2025, 5, 1, 0, 10, 0, 0, time.UTC)),
		Recurrence: "FREQ=HOURLY",
	}

	res, err := Expand([]model.Event{ev}, ExpandConfig{
		DisplayLocation:        time.UTC,
		RangeStart:             time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:               time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		MaxOccurrencesPerEvent: 10,
	})
	require.NoError(t, err)
	assert.Len(t, res.Occurrences, 10)
	assert.Equal(t, []string{"hourly"}, res.TruncatedEvents)
}

func TestExpandRejectsInvertedRange(t *testing.T) {
	now := time.Now()
	_, err := Expand(nil, ExpandConfig{RangeStart: now, RangeEnd: now.Add(-time.Hour)})
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	start := time.Date(2025, 5, 5, 15, 0, 0, 0, time.UTC)
	events := []model.Event{
		{
			ID:            "e1",
			Title:         "Standup",
			Description:   "Daily sync",
			Location:      "Lima",
			Status:        model.EventPublished,
			StartDate:     ts(start),
			EndDate:       ts(start.Add(30 * time.Minute)),
			Recurrence:    "FREQ=WEEKLY;BYDAY=MO",
			ExcludedDates: []model.Timestamp{ts(start.AddDate(0, 0, 7))},
		},
		{
			ID:        "e2",
			Title:     "Fair",
			Status:    model.EventCancelled,
			AllDay:    true,
			StartDate: ts(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
		{Title: "never saved"},
	}

	out := Export(events, ExportOptions{Name: "EventGo", Location: time.UTC, Now: start})
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "UID:e1@eventgo")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, out, "EXDATE:20250512T150000Z")
	assert.NotContains(t, out, "never saved")

	parsed, err := Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	byID := map[model.ID]model.Event{}
	for _, ev := range parsed {
		byID[ev.ID] = ev
	}

	e1 := byID["e1"]
	assert.Equal(t, "Standup", e1.Title)
	assert.Equal(t, "Daily sync", e1.Description)
	assert.Equal(t, "Lima", e1.Location)
	assert.True(t, start.Equal(e1.StartDate.Time), e1.StartDate.Time.String())
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", e1.Recurrence)
	require.Len(t, e1.ExcludedDates, 1)
	assert.True(t, start.AddDate(0, 0, 7).Equal(e1.ExcludedDates[0].Time))
	assert.False(t, e1.AllDay)

	e2 := byID["e2"]
	assert.True(t, e2.AllDay)
	assert.Equal(t, model.EventCancelled, e2.Status)
	assert.Equal(t, 1, e2.StartDate.Day())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)

	events, err := Parse([]byte(strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:foreign-uid",
		"SUMMARY:Imported",
		"DTSTART:20250101T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:no uid",
		"DTSTART:20250101T090000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].ID)
	assert.Equal(t, "Imported", events[0].Title)
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(""))
	assert.NoError(t, ValidateRule("FREQ=WEEKLY;BYDAY=MO,WE"))
	assert.NoError(t, ValidateRule("RRULE:FREQ=DAILY;COUNT=3"))
	assert.Error(t, ValidateRule("every monday"))
	assert.Error(t, ValidateRule("FREQ=SOMETIMES"))
}
