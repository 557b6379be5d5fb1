package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventgo/internal/model"
)

// UIDDomain is appended to event ids to form VEVENT UIDs.
const UIDDomain = "eventgo"

// ExportOptions controls calendar export.
type ExportOptions struct {
	// Name becomes X-WR-CALNAME.
	Name string
	// Location is used for all-day dates and X-WR-TIMEZONE. Nil means time.Local.
	Location *time.Location
	// PublicURL, if set, links every VEVENT to its page.
	PublicURL string
	// Now stamps DTSTAMP. Zero means time.Now().
	Now time.Time
}

// Export builds an iCalendar feed (METHOD:PUBLISH) with one VEVENT per
// event. Recurring events keep their RRULE and excluded dates so calendar
// clients expand them themselves.
func Export(events []model.Event, opts ExportOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//EventGo//Events//ES")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}
	cal.SetXWRTimezone(loc.String())

	for _, ev := range events {
		if ev.ID == "" || ev.StartDate.IsZero() {
			continue
		}
		addEvent(cal, ev, loc, now, opts.PublicURL)
	}
	return cal.Serialize()
}

func addEvent(cal *ical.Calendar, ev model.Event, loc *time.Location, now time.Time, publicURL string) {
	start, end := eventBounds(ev, loc)

	ve := cal.AddEvent(ev.ID.String() + "@" + UIDDomain)
	ve.SetDtStampTime(now)
	ve.SetSummary(ev.Title)
	if ev.Description != "" {
		ve.SetDescription(ev.Description)
	}
	if ev.Location != "" {
		ve.SetLocation(ev.Location)
	}
	if ev.Category != "" {
		ve.SetProperty(ical.ComponentPropertyCategories, ev.Category)
	}
	if publicURL != "" {
		ve.SetURL(strings.TrimRight(publicURL, "/") + "/events")
	}
	ve.SetStatus(objectStatus(ev.Status))

	if ev.AllDay {
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(end)
	} else {
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	}

	if ev.Recurrence == "" {
		return
	}
	ve.AddProperty(ical.ComponentPropertyRrule, ruleText(ev.Recurrence))
	for _, ex := range ev.ExcludedDates {
		if ex.IsZero() {
			continue
		}
		if ev.AllDay {
			ve.AddProperty(ical.ComponentPropertyExdate, ex.Time.Format("20060102"),
				&ical.KeyValues{Key: string(ical.ParameterValue), Value: []string{"DATE"}})
			continue
		}
		ve.AddProperty(ical.ComponentPropertyExdate, ex.Time.UTC().Format("20060102T150405Z"))
	}
}

func objectStatus(status string) ical.ObjectStatus {
	switch status {
	case model.EventCancelled:
		return ical.ObjectStatusCancelled
	case model.EventDraft:
		return ical.ObjectStatusTentative
	default:
		return ical.ObjectStatusConfirmed
	}
}
