package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var ev struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"ev-1","b":42,"c":null}`), &ev))
	assert.Equal(t, ID("ev-1"), ev.A)
	assert.Equal(t, ID("42"), ev.B)
	assert.Equal(t, ID(""), ev.C)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestTimestampLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2025-03-01T10:30:00Z"`, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{`"2025-03-01T10:30"`, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{`"2025-03-01"`, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{`"2024-05-01 10:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01 10:00:30"`, time.Date(2024, 5, 1, 10, 0, 30, 0, time.UTC)},
		{`1714557600000`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`1714557600`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestampWritesBackBackendValues(t *testing.T) {
	for _, in := range []string{`"next tuesday"`, `1714557600000`, `{"$date":1}`} {
		t.Run(in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(in), &ts))
			out, err := json.Marshal(ts)
			require.NoError(t, err)
			assert.JSONEq(t, in, string(out))
		})
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"next tuesday"`), &ts))
	assert.True(t, ts.IsZero())
}

func TestListWithOddDatesDecodes(t *testing.T) {
	body := `[{"id":"m1","content":"hi","senderId":"o1","sentAt":1714557600000},` +
		`{"id":"m2","content":"yo","senderId":"o2","sentAt":"2024-05-01 10:00"},` +
		`{"id":"m3","content":"??","senderId":"o2","sentAt":"someday"}]`
	var msgs []Message
	require.NoError(t, json.Unmarshal([]byte(body), &msgs))
	require.Len(t, msgs, 3)
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(msgs[0].SentAt.Time))
	assert.True(t, want.Equal(msgs[1].SentAt.Time))
	assert.True(t, msgs[2].SentAt.IsZero())
}

func TestUnknownFieldsSurviveRoundTrip(t *testing.T) {
	in := `{"id":"q1","title":"Boda","clientName":"Luz","eventDate":"2025-06-01T00:00:00Z","amount":900,` +
		`"discount":{"pct":10},"organizerId":"o7","Tags":["vip"]}`
	var q Quote
	require.NoError(t, json.Unmarshal([]byte(in), &q))
	assert.Equal(t, "Boda", q.Title)
	require.Len(t, q.Extra, 3)
	assert.JSONEq(t, `{"pct":10}`, string(q.Extra["discount"]))

	q.Title = "Boda civil"
	out, err := json.Marshal(q)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "Boda civil", got["title"])
	assert.Equal(t, map[string]any{"pct": 10.0}, got["discount"])
	assert.Equal(t, "o7", got["organizerId"])
	assert.Equal(t, []any{"vip"}, got["Tags"])
}

func TestDeclaredFieldsAreNotExtra(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t1","Title":"x","ASSIGNEE":"bo","dueDate":null}`), &task))
	assert.Nil(t, task.Extra)
	assert.Equal(t, "x", task.Title)

	// A cleared field stays cleared even if an extra member shares its name.
	task.Extra = Extra{"assignee": json.RawMessage(`"ghost"`), "labels": json.RawMessage(`[1]`)}
	task.Assignee = ""
	out, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1","title":"x","dueDate":null,"labels":[1]}`, string(out))
}

func TestTimestampMarshalZeroAsNull(t *testing.T) {
	out, err := json.Marshal(Task{Title: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","dueDate":null}`, string(out))
}

func TestQuoteTotal(t *testing.T) {
	q := Quote{Amount: 100}
	assert.Equal(t, 100.0, q.Total())

	q.Items = []QuoteItem{{Quantity: 2, UnitPrice: 50}, {Quantity: 1, UnitPrice: 25.5}}
	assert.Equal(t, 125.5, q.Total())
}
