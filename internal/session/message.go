package session

// MessageKind classifies the single status slot so real failures stay
// distinguishable from transient status text.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// Message is the last-write-wins status slot. Every transition clears it at
// entry and writes one terminal message at exit; there is never a history.
type Message struct {
	Kind MessageKind
	Text string
}

// IsZero reports whether the slot is empty.
func (m Message) IsZero() bool {
	return m.Text == ""
}

func (s *Session) setMessage(kind MessageKind, text string) {
	s.message = Message{Kind: kind, Text: text}
}

func (s *Session) clearMessage() {
	s.message = Message{}
}

// Post writes a status message to the slot without running a transition.
// UI-level actions that never touch session state, clipboard copies and the
// like, still surface their outcome through the single message surface.
func (s *Session) Post(kind MessageKind, text string) {
	s.setMessage(kind, text)
	s.commit()
}

// refuse surfaces a precondition violation. Derived enablement should keep
// these from ever firing; they are handled, not trusted.
func (s *Session) refuse(text string) {
	s.setMessage(MessageError, text)
	s.commit()
}
