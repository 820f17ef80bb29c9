package core

import "fmt"

// Event is the tag identifying what kind of call a Request carries.
// The router uses the route pattern a message arrived on.
type Event string

// Request describes one inbound call: an opaque identifier and the event tag.
// It is immutable once built and may be shared by pointer across every
// extraction running for the same call.
type Request struct {
	id    string
	event Event
}

// NewRequest creates a Request for the given event and id.
func NewRequest(event Event, id string) *Request {
	return &Request{id: id, event: event}
}

func (r *Request) ID() string { return r.id }

func (r *Request) Event() Event { return r.event }

func (r *Request) String() string {
	return fmt.Sprintf("Request{id:%q event:%q}", r.id, r.event)
}

// Payload is the raw content of a call: either empty (None) or a byte buffer.
//
// The dispatcher owns the Payload and lends it to extractors by pointer.
// Extractors may read it but must not replace it.
type Payload struct {
	data  []byte
	bytes bool
}

// NoPayload returns an empty Payload.
func NoPayload() Payload { return Payload{} }

// BytesPayload wraps b. A nil slice still counts as a byte payload;
// use NoPayload for the absent case.
func BytesPayload(b []byte) Payload {
	return Payload{data: b, bytes: true}
}

// PayloadFromMessage builds the payload for a broker message.
// A message without a body yields None.
func PayloadFromMessage(msg Message) Payload {
	if msg == nil || len(msg.Value()) == 0 {
		return NoPayload()
	}
	return BytesPayload(msg.Value())
}

func (p *Payload) IsNone() bool { return p == nil || !p.bytes }

// Bytes returns the buffer and true, or nil and false for None.
func (p *Payload) Bytes() ([]byte, bool) {
	if p.IsNone() {
		return nil, false
	}
	return p.data, true
}

func (p *Payload) Len() int {
	if p.IsNone() {
		return 0
	}
	return len(p.data)
}

// Clone returns a separately owned copy.
func (p *Payload) Clone() Payload {
	if p.IsNone() {
		return NoPayload()
	}
	buf := make([]byte, len(p.data))
	copy(buf, p.data)
	return BytesPayload(buf)
}

func (p Payload) String() string {
	if !p.bytes {
		return "Payload(None)"
	}
	return fmt.Sprintf("Payload(%d bytes)", len(p.data))
}
