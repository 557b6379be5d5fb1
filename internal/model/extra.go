package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds the top-level members of a backend record that the model does
// not declare. They are written back on marshal, so a PUT of an edited
// record keeps them.
type Extra map[string]json.RawMessage

// knownNames caches the lower-cased JSON member names per struct type.
var knownNames sync.Map

func jsonNames(t reflect.Type) map[string]struct{} {
	if v, ok := knownNames.Load(t); ok {
		return v.(map[string]struct{})
	}
	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		// encoding/json matches member names case-insensitively.
		names[strings.ToLower(name)] = struct{}{}
	}
	v, _ := knownNames.LoadOrStore(t, names)
	return v.(map[string]struct{})
}

// decodeWithExtra decodes data into v, a pointer to a struct, and returns
// the members v has no field for.
func decodeWithExtra(data []byte, v any) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	known := jsonNames(reflect.TypeOf(v).Elem())
	var extra Extra
	for k, raw := range members {
		if _, ok := known[strings.ToLower(k)]; ok {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[k] = raw
	}
	return extra, nil
}

// encodeWithExtra marshals v, a struct, and adds the extra members. Declared
// fields always win over extra members of the same name.
func encodeWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	known := jsonNames(reflect.TypeOf(v))
	for k, raw := range extra {
		if _, ok := known[strings.ToLower(k)]; ok {
			continue
		}
		members[k] = raw
	}
	return json.Marshal(members)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*e = Event(p)
	e.Extra = extra
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return encodeWithExtra(plain(e), e.Extra)
}

func (o *Organizer) UnmarshalJSON(data []byte) error {
	type plain Organizer
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*o = Organizer(p)
	o.Extra = extra
	return nil
}

func (o Organizer) MarshalJSON() ([]byte, error) {
	type plain Organizer
	return encodeWithExtra(plain(o), o.Extra)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*t = Task(p)
	t.Extra = extra
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return encodeWithExtra(plain(t), t.Extra)
}

func (q *Quote) UnmarshalJSON(data []byte) error {
	type plain Quote
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*q = Quote(p)
	q.Extra = extra
	return nil
}

func (q Quote) MarshalJSON() ([]byte, error) {
	type plain Quote
	return encodeWithExtra(plain(q), q.Extra)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*m = Message(p)
	m.Extra = extra
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	return encodeWithExtra(plain(m), m.Extra)
}

func (c *Conversation) UnmarshalJSON(data []byte) error {
	type plain Conversation
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*c = Conversation(p)
	c.Extra = extra
	return nil
}

func (c Conversation) MarshalJSON() ([]byte, error) {
	type plain Conversation
	return encodeWithExtra(plain(c), c.Extra)
}

func (a *Album) UnmarshalJSON(data []byte) error {
	type plain Album
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*a = Album(p)
	a.Extra = extra
	return nil
}

func (a Album) MarshalJSON() ([]byte, error) {
	type plain Album
	return encodeWithExtra(plain(a), a.Extra)
}
