package ics

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "eventgo/internal/log"
	"eventgo/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 5000
	defaultEventDuration          = time.Hour
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// DisplayLocation is the timezone to which all occurrences will be converted.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd define the inclusive time window for occurrences.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent is a safety cap to avoid infinite or extremely
	// large expansions. If zero, defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int

	// IncludeCancelled keeps events with status "cancelled".
	IncludeCancelled bool
}

// ExpandResult wraps the list of expanded occurrences and optionally
// information about truncation.
type ExpandResult struct {
	Occurrences []model.Occurrence
	// TruncatedEvents records event ids that hit the MaxOccurrencesPerEvent cap.
	TruncatedEvents []string
}

// Expand turns backend events into concrete occurrences within the given
// time range. It handles:
//
//   - Single non-recurring events
//   - RRULE-based recurrence (DAILY/WEEKLY/MONTHLY/YEARLY, etc.)
//   - excluded dates
//   - All-day semantics
//
// Occurrences are sorted by start and converted into
// ExpandConfig.DisplayLocation.
func Expand(events []model.Event, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	all := make([]model.Occurrence, 0)
	for _, ev := range events {
		if ev.StartDate.IsZero() {
			continue
		}
		if ev.Status == model.EventCancelled && !cfg.IncludeCancelled {
			continue
		}

		occ, hitCap := expandEvent(ev, cfg)
		if hitCap {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.ID.String())
			appLog.Error("expand: truncated occurrences for event due to cap",
				errors.New("max occurrences reached"),
				"event_id", ev.ID.String(),
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
		all = append(all, occ...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Start.Before(all[j].Start)
	})
	result.Occurrences = all
	return result, nil
}

func expandEvent(ev model.Event, cfg ExpandConfig) ([]model.Occurrence, bool) {
	start, end := eventBounds(ev, cfg.DisplayLocation)

	if ev.Recurrence == "" {
		if !timeRangesOverlap(start, end, cfg.RangeStart, cfg.RangeEnd) {
			return nil, false
		}
		return []model.Occurrence{makeOccurrence(ev, start, end, cfg.DisplayLocation)}, false
	}
	return expandRecurringEvent(ev, start, end, cfg)
}

// eventBounds returns the event's start and end. All-day events are pinned
// to whole days in loc, and a missing end gets a default duration.
func eventBounds(ev model.Event, loc *time.Location) (time.Time, time.Time) {
	start := ev.StartDate.Time
	end := ev.EndDate.Time

	if ev.AllDay {
		start = dayStart(start, loc)
		if end.IsZero() || !end.After(start) {
			end = start.AddDate(0, 0, 1)
		} else {
			end = dayStart(end, loc)
			if !end.After(start) {
				end = start.AddDate(0, 0, 1)
			}
		}
		return start, end
	}

	if end.IsZero() || end.Before(start) {
		end = start.Add(defaultEventDuration)
	}
	return start, end
}

// ruleText strips an optional "RRULE:" prefix.
func ruleText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 6 && strings.EqualFold(s[:6], "RRULE:") {
		return s[6:]
	}
	return s
}

// ValidateRule reports whether s is an RRULE value the expander accepts.
func ValidateRule(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := rrule.StrToROption(ruleText(s))
	return err
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func expandRecurringEvent(ev model.Event, start, end time.Time, cfg ExpandConfig) ([]model.Occurrence, bool) {
	out := make([]model.Occurrence, 0)
	hitCap := false

	r, err := rrule.StrToRRule(ruleText(ev.Recurrence))
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "event_id", ev.ID.String(), "rrule", ev.Recurrence)
		return out, false
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)

	for _, ex := range ev.ExcludedDates {
		if ex.IsZero() {
			continue
		}
		exStart := ex.Time.In(start.Location())
		if ev.AllDay {
			exStart = dayStart(ex.Time, start.Location())
		}
		set.ExDate(exStart)
	}

	dur := end.Sub(start)

	// An occurrence that started before the window may still overlap it.
	rangeStart := cfg.RangeStart.Add(-dur).In(start.Location())
	rangeEnd := cfg.RangeEnd.In(start.Location())

	occTimes := set.Between(rangeStart, rangeEnd, true)
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			occStart = dayStart(occStart, occStart.Location())
			occEnd = occStart.AddDate(0, 0, 1)
		} else {
			// Preserve original duration.
			occEnd = occStart.Add(dur)
		}
		if !timeRangesOverlap(occStart, occEnd, cfg.RangeStart, cfg.RangeEnd) {
			continue
		}
		out = append(out, makeOccurrence(ev, occStart, occEnd, cfg.DisplayLocation))
	}

	return out, hitCap
}

// makeOccurrence converts an event plus a specific start/end time into a
// model.Occurrence normalized into displayLoc.
func makeOccurrence(ev model.Event, start, end time.Time, displayLoc *time.Location) model.Occurrence {
	startLocal := start.In(displayLoc)
	endLocal := end.In(displayLoc)

	return model.Occurrence{
		EventID:     ev.ID,
		InstanceKey: ev.ID.String() + "@" + startLocal.Format(time.RFC3339),
		Title:       ev.Title,
		Location:    ev.Location,
		Status:      ev.Status,
		AllDay:      ev.AllDay,
		Start:       startLocal,
		End:         endLocal,
	}
}

func timeRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}
