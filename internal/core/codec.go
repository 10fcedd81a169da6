package core

// Codec encodes hub output for one wire protocol. Implementations are
// stateless value types; the hub calls them from its scheduler goroutine
// only.
//
// EncodeEvent reports whether the encoding may be reused for other
// recipients of the same broadcast; encodings that embed the recipient's
// own nickname must report false. A nil buffer from any method means the
// protocol has no reply for that situation and nothing is sent.
type Codec interface {
	EncodeEvent(ev *Event, recipientNick string) (buf []byte, cacheable bool)
	EncodeError(cerr *CoreError, recipientNick string) []byte
	EncodeWelcome(nick string) []byte
	EncodeNickAck(nick string) []byte
	EncodeHistory(channel string, texts []string) []byte
}
