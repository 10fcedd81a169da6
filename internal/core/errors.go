package core

import (
	"fmt"
	"time"
)

// Error codes for domain errors.
const (
	ErrCodeNotRegistered  = "not_registered"
	ErrCodeInvalidNick    = "invalid_nick"
	ErrCodeNickInUse      = "nick_in_use"
	ErrCodeNickTooLong    = "nick_too_long"
	ErrCodeInvalidChannel = "invalid_channel"
	ErrCodeAlreadyJoined  = "already_joined"
	ErrCodeNotInChannel   = "not_in_channel"
	ErrCodeEmptyMessage   = "empty_message"
	ErrCodeNoChannel      = "no_channel"
	ErrCodeMessageTooLong = "message_too_long"
	ErrCodeFloodBlocked   = "flood_blocked"
)

// CoreError describes a rejected command. Subject carries the offending
// token (nickname or channel name) and Origin the wire command it belongs
// to; the line codec needs both to pick a numeric reply.
type CoreError struct {
	Code    string
	Message string
	Subject string
	Origin  string
}

func (e *CoreError) Error() string { return e.Message }

func errNotRegistered(origin string) *CoreError {
	return &CoreError{Code: ErrCodeNotRegistered, Message: "Nickname not set", Origin: origin}
}

func errInvalidNick(nick string) *CoreError {
	return &CoreError{Code: ErrCodeInvalidNick, Message: "Invalid nickname", Subject: nick, Origin: "NICK"}
}

func errNickInUse(nick string) *CoreError {
	return &CoreError{Code: ErrCodeNickInUse, Message: "Nickname already in use", Subject: nick, Origin: "NICK"}
}

func errNickTooLong(nick string, max int) *CoreError {
	return &CoreError{
		Code:    ErrCodeNickTooLong,
		Message: fmt.Sprintf("Nickname too long (Maximum: %d)", max),
		Subject: nick,
		Origin:  "NICK",
	}
}

func errInvalidChannel(name, origin string) *CoreError {
	return &CoreError{Code: ErrCodeInvalidChannel, Message: "Invalid channel", Subject: name, Origin: origin}
}

func errAlreadyJoined(name string) *CoreError {
	return &CoreError{Code: ErrCodeAlreadyJoined, Message: "Already in channel", Subject: name, Origin: "JOIN"}
}

func errNotInChannel(name, origin string) *CoreError {
	return &CoreError{Code: ErrCodeNotInChannel, Message: "Not in channel", Subject: name, Origin: origin}
}

func errEmptyMessage() *CoreError {
	return &CoreError{Code: ErrCodeEmptyMessage, Message: "Empty message", Origin: "PRIVMSG"}
}

func errNoChannel() *CoreError {
	return &CoreError{Code: ErrCodeNoChannel, Message: "Channel not set", Origin: "PRIVMSG"}
}

func errMessageTooLong(max int) *CoreError {
	return &CoreError{
		Code:    ErrCodeMessageTooLong,
		Message: fmt.Sprintf("Message too long (Maximum: %d)", max),
		Origin:  "PRIVMSG",
	}
}

func errFloodBlocked(wait time.Duration) *CoreError {
	return &CoreError{
		Code:    ErrCodeFloodBlocked,
		Message: fmt.Sprintf("Blocked by flood control (Wait %.1f seconds)", wait.Seconds()),
		Origin:  "PRIVMSG",
	}
}
