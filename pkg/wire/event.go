package wire

import "fmt"

// Event is a host event reported by a client: a user interaction with a
// fragment's node, addressed by region and key and delivered to the
// node's registered handler.
type Event struct {
	Region string // Mount region the fragment lives in
	Key    string // Fragment key within the region
	Name   string // Event name ("input", "change", ...)
	Value  string // Event payload, e.g. the input's current text
}

// EncodeEvent encodes an event payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteString(ev.Region)
	e.WriteString(ev.Key)
	e.WriteString(ev.Name)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes an event payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)

	var ev Event
	var err error
	if ev.Region, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("wire: event region: %w", err)
	}
	if ev.Key, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("wire: event key: %w", err)
	}
	if ev.Name, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("wire: event name: %w", err)
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("wire: event value: %w", err)
	}
	return &ev, nil
}
