package store

import "context"

// Message is one persisted chat line. Text already carries the rendered
// "nick: message" form.
type Message struct {
	ID      int64
	Channel string
	Text    string
}

// MessageStore is the append-only per-channel message log.
type MessageStore interface {
	// AppendMessage appends one rendered line to the channel's log.
	AppendMessage(ctx context.Context, channel, text string) error

	// RecentMessages returns at most limit of the newest lines for the
	// channel, oldest first.
	RecentMessages(ctx context.Context, channel string, limit int) ([]string, error)

	// Close closes the underlying database connection.
	Close() error
}
