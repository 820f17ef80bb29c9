package mock

// Message is an in-memory core.Message for tests.
type Message struct {
	MsgID   string
	K       []byte
	V       []byte
	H       map[string]string
	Acked   bool
	Nacked  bool
	AckErr  error
	NackErr error
}

// NewMessage returns a Message with the given id and body.
func NewMessage(id string, body []byte) *Message {
	return &Message{MsgID: id, V: body}
}

func (m *Message) ID() string                 { return m.MsgID }
func (m *Message) Key() []byte                { return m.K }
func (m *Message) Value() []byte              { return m.V }
func (m *Message) Headers() map[string]string { return m.H }

func (m *Message) Ack() error {
	m.Acked = true
	return m.AckErr
}

func (m *Message) Nack() error {
	m.Nacked = true
	return m.NackErr
}
