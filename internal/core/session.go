package core

import "github.com/google/uuid"

// Proto identifies the wire protocol a session speaks.
type Proto int

const (
	// ProtoFramed exchanges self-describing JSON frames.
	ProtoFramed Proto = iota
	// ProtoLine exchanges newline-terminated IRC-style text.
	ProtoLine
)

// Session is one live connection. Transports read Outgoing and submit
// decoded commands; every other field is owned by the hub goroutine after
// registration.
type Session struct {
	ID       string
	Proto    Proto
	Outgoing chan []byte

	user   *User
	flood  *floodWindow
	closed bool
}

// NewSession constructs a session for the given protocol with a buffered
// outbound queue.
func NewSession(proto Proto) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Proto:    proto,
		Outgoing: make(chan []byte, 64),
	}
}

// Nick returns the session's nickname, or "*" before registration.
func (s *Session) Nick() string {
	if s.user == nil {
		return "*"
	}
	return s.user.Nick
}
