package core

// EventKind is a notification the hub emits to interested sessions.
type EventKind int

const (
	// EventChatMessage carries a rendered "nick: text" chat line.
	EventChatMessage EventKind = iota
	// EventNickChanged announces a rename to users sharing a channel.
	EventNickChanged
	// EventJoined announces a new channel member.
	EventJoined
	// EventParted announces a departing channel member.
	EventParted
	// EventNames carries the full membership of a channel.
	EventNames
)

// Event is an immutable, protocol-agnostic broadcast notification. It holds
// no recipient-specific data, so one encoding can be shared by every
// recipient of a broadcast that uses the same protocol.
type Event struct {
	Kind    EventKind
	Channel string
	Text    string   // EventChatMessage
	Nick    string   // EventJoined, EventParted
	OldNick string   // EventNickChanged
	NewNick string   // EventNickChanged
	Nicks   []string // EventNames
}
