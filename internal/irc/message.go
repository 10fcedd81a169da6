// Package irc implements the line-oriented IRC-style wire protocol: message
// parsing and formatting, command decoding and event encoding.
package irc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyLine is returned for a line with no command token.
var ErrEmptyLine = errors.New("empty line")

// Message is one parsed IRC-style line.
type Message struct {
	Prefix  string
	Command string
	Params  []string
}

// ParseMessage splits a line into optional :prefix, a command token and
// parameters. A final parameter starting with ':' consumes the remainder of
// the line verbatim. The command is lower-cased for dispatch matching.
func ParseMessage(line string) (Message, error) {
	rest := strings.TrimRight(line, "\r\n")

	var msg Message
	if strings.HasPrefix(rest, ":") {
		prefix, tail, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return Message{}, fmt.Errorf("prefix without command: %q", line)
		}
		msg.Prefix = prefix
		rest = tail
	}

	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		return Message{}, ErrEmptyLine
	}

	cmd, rest, _ := strings.Cut(rest, " ")
	msg.Command = strings.ToLower(cmd)

	for rest != "" {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		if strings.HasPrefix(rest, ":") {
			msg.Params = append(msg.Params, rest[1:])
			break
		}
		var param string
		param, rest, _ = strings.Cut(rest, " ")
		msg.Params = append(msg.Params, param)
	}

	return msg, nil
}

// FormatMessage is the inverse of ParseMessage. The command is upper-cased
// and the final parameter gets a ':' iff it is empty or contains a space,
// which keeps the line unambiguous on re-parse.
func FormatMessage(msg Message) string {
	var b strings.Builder
	if msg.Prefix != "" {
		b.WriteByte(':')
		b.WriteString(msg.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToUpper(msg.Command))
	for i, param := range msg.Params {
		b.WriteByte(' ')
		if i == len(msg.Params)-1 && (param == "" || strings.Contains(param, " ")) {
			b.WriteByte(':')
		}
		b.WriteString(param)
	}
	return b.String()
}
