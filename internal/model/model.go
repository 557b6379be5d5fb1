package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque backend identifier. The backend emits ids as either JSON
// strings or numbers depending on how a record was created; both decode
// into the same string form.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("model: id must be a string or number")
	}
	*id = ID(n.String())
	return nil
}

// Timestamp accepts the date formats the backend and HTML forms produce.
// Backend values it cannot read as a date decode to the zero time and are
// written back unchanged.
type Timestamp struct {
	time.Time

	raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Epoch numbers at or above this are milliseconds, below it seconds.
const epochMillisFrom = 100_000_000_000

// ParseTimestamp parses s using the accepted layouts. Values without a zone
// are interpreted in loc (time.Local when nil).
func ParseTimestamp(s string, loc *time.Location) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return Timestamp{Time: t}, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, errors.New("model: unsupported time format " + strconv.Quote(s))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*ts = Timestamp{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			if v, err := n.Int64(); err == nil {
				if v >= epochMillisFrom || v <= -epochMillisFrom {
					ts.Time = time.UnixMilli(v).UTC()
				} else {
					ts.Time = time.Unix(v, 0).UTC()
				}
			}
		}
		ts.raw = string(data)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s, time.UTC)
	if err != nil {
		ts.raw = string(data)
		return nil
	}
	*ts = parsed
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.raw != "" {
		return []byte(ts.raw), nil
	}
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// Event statuses used by the events page filter.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Event is a social event managed by an organizer.
type Event struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Status      string `json:"status,omitempty"`
	Category    string `json:"category,omitempty"`

	StartDate Timestamp `json:"startDate"`
	EndDate   Timestamp `json:"endDate"`
	AllDay    bool      `json:"allDay,omitempty"`

	// Recurrence is an RFC 5545 RRULE value ("FREQ=WEEKLY;BYDAY=MO").
	Recurrence    string      `json:"recurrence,omitempty"`
	ExcludedDates []Timestamp `json:"excludedDates,omitempty"`

	Capacity    int     `json:"capacity,omitempty"`
	Price       float64 `json:"price,omitempty"`
	OrganizerID ID      `json:"organizerId,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`

	Extra Extra `json:"-"`
}

// Organizer is the public profile of an event organizer.
type Organizer struct {
	ID          ID      `json:"id,omitempty"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Company     string  `json:"company,omitempty"`
	Bio         string  `json:"bio,omitempty"`
	Location    string  `json:"location,omitempty"`
	Website     string  `json:"website,omitempty"`
	AvatarURL   string  `json:"avatarUrl,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	EventsCount int     `json:"eventsCount,omitempty"`

	Extra Extra `json:"-"`
}

// Task statuses and priorities.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          ID        `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	DueDate     Timestamp `json:"dueDate"`
	EventID     ID        `json:"eventId,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`

	Extra Extra `json:"-"`
}

// Quote statuses.
const (
	QuotePending  = "pending"
	QuoteApproved = "approved"
	QuoteRejected = "rejected"
)

type QuoteItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type Quote struct {
	ID          ID          `json:"id,omitempty"`
	Title       string      `json:"title"`
	ClientName  string      `json:"clientName"`
	ClientEmail string      `json:"clientEmail,omitempty"`
	EventType   string      `json:"eventType,omitempty"`
	EventDate   Timestamp   `json:"eventDate"`
	Amount      float64     `json:"amount"`
	Currency    string      `json:"currency,omitempty"`
	Status      string      `json:"status,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Items       []QuoteItem `json:"items,omitempty"`

	Extra Extra `json:"-"`
}

// Total sums the line items, falling back to Amount when there are none.
func (q Quote) Total() float64 {
	if len(q.Items) == 0 {
		return q.Amount
	}
	var sum float64
	for _, it := range q.Items {
		sum += float64(it.Quantity) * it.UnitPrice
	}
	return sum
}

type Message struct {
	ID             ID        `json:"id,omitempty"`
	ConversationID ID        `json:"conversationId,omitempty"`
	SenderID       ID        `json:"senderId"`
	RecipientID    ID        `json:"recipientId,omitempty"`
	Content        string    `json:"content"`
	SentAt         Timestamp `json:"sentAt"`
	Read           bool      `json:"read,omitempty"`

	Extra Extra `json:"-"`
}

type Conversation struct {
	ID           ID        `json:"id,omitempty"`
	Participants []ID      `json:"participants"`
	Title        string    `json:"title,omitempty"`
	LastMessage  string    `json:"lastMessage,omitempty"`
	UpdatedAt    Timestamp `json:"updatedAt"`

	Extra Extra `json:"-"`
}

type Album struct {
	ID          ID        `json:"id,omitempty"`
	OrganizerID ID        `json:"organizerId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`

	Extra Extra `json:"-"`
}

// Occurrence represents a single concrete instance of an event
// (after recurrence expansion and timezone normalization).
type Occurrence struct {
	EventID ID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, derived from the local start time.
	InstanceKey string

	Title    string
	Location string
	Status   string

	AllDay bool

	// Start / End are in the configured display timezone.
	Start time.Time
	End   time.Time
}
