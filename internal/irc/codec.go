package irc

import (
	"strings"

	"github.com/duplexchat/duplexd/internal/core"
)

// DefaultServerName prefixes server-originated replies.
const DefaultServerName = "Server"

// Codec encodes hub output as IRC-style lines.
type Codec struct {
	ServerName string
}

func (c Codec) server() string {
	if c.ServerName == "" {
		return DefaultServerName
	}
	return c.ServerName
}

func line(prefix, command string, params ...string) []byte {
	return []byte(FormatMessage(Message{Prefix: prefix, Command: command, Params: params}) + "\n")
}

// EncodeEvent implements core.Codec. The NAMES reply pair embeds the
// recipient's own nickname, so it cannot be shared across recipients.
func (c Codec) EncodeEvent(ev *core.Event, recipientNick string) ([]byte, bool) {
	switch ev.Kind {
	case core.EventChatMessage:
		nick, text, ok := strings.Cut(ev.Text, ": ")
		if !ok {
			nick, text = c.server(), ev.Text
		}
		return line(nick, "privmsg", ev.Channel, text), true
	case core.EventNickChanged:
		return line(ev.OldNick, "nick", ev.NewNick), true
	case core.EventJoined:
		return line(ev.Nick, "join", ev.Channel), true
	case core.EventParted:
		return line(ev.Nick, "part", ev.Channel), true
	case core.EventNames:
		buf := line(c.server(), "353", recipientNick, "@", ev.Channel, strings.Join(ev.Nicks, " "))
		buf = append(buf, line(c.server(), "366", recipientNick, ev.Channel, "End of /NAMES list")...)
		return buf, false
	default:
		return nil, true
	}
}

// EncodeError maps domain error codes onto numeric replies.
func (c Codec) EncodeError(cerr *core.CoreError, recipientNick string) []byte {
	switch cerr.Code {
	case core.ErrCodeNotRegistered:
		return line(c.server(), "451", recipientNick, "You have not registered")
	case core.ErrCodeInvalidNick, core.ErrCodeNickTooLong:
		return line(c.server(), "432", recipientNick, cerr.Subject, "Erroneous nickname")
	case core.ErrCodeNickInUse:
		return line(c.server(), "433", recipientNick, cerr.Subject, "Nickname already in use")
	case core.ErrCodeInvalidChannel:
		return line(c.server(), "403", recipientNick, cerr.Subject, "No such channel")
	case core.ErrCodeNotInChannel:
		if cerr.Origin == "PART" {
			return line(c.server(), "442", recipientNick, cerr.Subject, "You're not on that channel")
		}
		return line(c.server(), "404", recipientNick, cerr.Subject, "Cannot send to channel")
	case core.ErrCodeEmptyMessage:
		return line(c.server(), "412", recipientNick, "No text to send")
	case core.ErrCodeNoChannel:
		return line(c.server(), "411", recipientNick, "No recipient given")
	default:
		return line(c.server(), "400", recipientNick, cerr.Origin, cerr.Message)
	}
}

// EncodeWelcome sends the registration numerics.
func (c Codec) EncodeWelcome(nick string) []byte {
	buf := line(c.server(), "001", nick, "Welcome to the server")
	return append(buf, line(c.server(), "376", nick, "End of message of the day")...)
}

// EncodeNickAck returns nil: the rename is announced by the NICK broadcast.
func (c Codec) EncodeNickAck(string) []byte { return nil }

// EncodeHistory replays persisted lines as server-prefixed PRIVMSGs, one
// per line. Nothing is sent for an empty history.
func (c Codec) EncodeHistory(channel string, texts []string) []byte {
	var buf []byte
	for _, text := range texts {
		buf = append(buf, line(c.server(), "privmsg", channel, text)...)
	}
	return buf
}

var _ core.Codec = Codec{}
