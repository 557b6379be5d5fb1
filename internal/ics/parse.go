package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "eventgo/internal/log"
	"eventgo/internal/model"
)

// Parse reads an iCalendar payload into events ready to be created on the
// backend. Ids are only kept for UIDs this application exported itself.
// Events that cannot be read are logged and skipped.
func Parse(body []byte) ([]model.Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse calendar: %w", err)
	}

	events := make([]model.Event, 0)
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(comp)
		if perr != nil {
			appLog.Error("ics vevent parse failed", perr, "uid", comp.Id())
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (model.Event, error) {
	var out model.Event

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	if id, ok := strings.CutSuffix(uidProp.Value, "@"+UIDDomain); ok {
		out.ID = model.ID(id)
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		out.Category = p.Value
	}
	out.Status = eventStatus(ve.GetProperty(ical.ComponentPropertyStatus))

	// VALUE=DATE or a value without 'T' means all-day.
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, errors.New("missing DTSTART")
	}
	if vs := dtStart.ICalParameters[string(ical.ParameterValue)]; len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStart.Value, "T") {
		out.AllDay = true
	}

	var (
		start, end time.Time
		err        error
	)
	if out.AllDay {
		start, err = ve.GetAllDayStartAt()
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
		end, _ = ve.GetAllDayEndAt()
	} else {
		start, err = ve.GetStartAt()
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
		end, _ = ve.GetEndAt()
	}
	out.StartDate = model.Timestamp{Time: start}
	out.EndDate = model.Timestamp{Time: end}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.Recurrence = p.Value
	}

	// EXDATE can repeat and can hold comma-separated lists.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			t, err := parseICSTime(part)
			if err != nil {
				continue
			}
			out.ExcludedDates = append(out.ExcludedDates, model.Timestamp{Time: t})
		}
	}

	return out, nil
}

func eventStatus(p *ical.IANAProperty) string {
	if p == nil {
		return model.EventPublished
	}
	switch strings.ToUpper(strings.TrimSpace(p.Value)) {
	case string(ical.ObjectStatusCancelled):
		return model.EventCancelled
	case string(ical.ObjectStatusTentative):
		return model.EventDraft
	default:
		return model.EventPublished
	}
}

// parseICSTime parses the basic DATE, DATE-TIME and UTC forms. Floating
// values are read as UTC.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.UTC)
	}
	return time.ParseInLocation("20060102", v, time.UTC)
}
