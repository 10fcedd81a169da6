// Package proto implements the framed JSON wire protocol: one object per
// WebSocket text frame, carrying exactly one command key-group inbound.
package proto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/duplexchat/duplexd/internal/core"
)

var (
	// ErrUnknownFrame is returned for a frame with no command key.
	ErrUnknownFrame = errors.New("frame carries no known command key")
	// ErrAmbiguousFrame is returned for a frame with several command keys.
	ErrAmbiguousFrame = errors.New("frame carries more than one command key")
)

// inbound mirrors the four inbound frame shapes. Pointers distinguish an
// absent key from an empty value.
type inbound struct {
	Nick *string `json:"nick"`
	Msg  *string `json:"msg"`
	Chan *string `json:"chan"`
	Join *string `json:"join"`
	Part *string `json:"part"`
}

// DecodeCommand parses one inbound frame into a command.
func DecodeCommand(data []byte) (*core.Command, error) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	keys := 0
	for _, p := range []*string{in.Nick, in.Msg, in.Join, in.Part} {
		if p != nil {
			keys++
		}
	}
	switch {
	case keys == 0:
		return nil, ErrUnknownFrame
	case keys > 1:
		return nil, ErrAmbiguousFrame
	}

	switch {
	case in.Nick != nil:
		return &core.Command{Kind: core.CommandSetNick, Nick: strings.TrimSpace(*in.Nick)}, nil
	case in.Msg != nil:
		var channel string
		if in.Chan != nil {
			channel = *in.Chan
		}
		return &core.Command{
			Kind:    core.CommandSendMessage,
			Channel: strings.TrimSpace(channel),
			Text:    strings.TrimSpace(*in.Msg),
		}, nil
	case in.Join != nil:
		return &core.Command{Kind: core.CommandJoinChannel, Channel: strings.TrimSpace(*in.Join)}, nil
	default:
		return &core.Command{Kind: core.CommandPartChannel, Channel: strings.TrimSpace(*in.Part)}, nil
	}
}

type chatFrame struct {
	Msg  string `json:"msg"`
	Chan string `json:"chan"`
}

type nickFrame struct {
	Nick string `json:"nick"`
}

type renameFrame struct {
	Nick string `json:"nick"`
	User string `json:"user"`
}

type joinFrame struct {
	Join string `json:"join"`
	User string `json:"user"`
}

type partFrame struct {
	Part string `json:"part"`
	User string `json:"user"`
}

type namesFrame struct {
	Users []string `json:"users"`
	Chan  string   `json:"chan"`
}

type historyFrame struct {
	Msgs []string `json:"msgs"`
}

type errFrame struct {
	Err string `json:"err"`
}

func marshal(v any) []byte {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return buf
}

// Codec encodes hub output as framed JSON.
type Codec struct{}

// EncodeEvent implements core.Codec. Framed encodings carry no
// recipient-specific data and are always cacheable.
func (Codec) EncodeEvent(ev *core.Event, _ string) ([]byte, bool) {
	switch ev.Kind {
	case core.EventChatMessage:
		return marshal(chatFrame{Msg: ev.Text, Chan: ev.Channel}), true
	case core.EventNickChanged:
		return marshal(renameFrame{Nick: ev.NewNick, User: ev.OldNick}), true
	case core.EventJoined:
		return marshal(joinFrame{Join: ev.Channel, User: ev.Nick}), true
	case core.EventParted:
		return marshal(partFrame{Part: ev.Channel, User: ev.Nick}), true
	case core.EventNames:
		return marshal(namesFrame{Users: ev.Nicks, Chan: ev.Channel}), true
	default:
		return nil, true
	}
}

// EncodeError implements core.Codec.
func (Codec) EncodeError(cerr *core.CoreError, _ string) []byte {
	return marshal(errFrame{Err: cerr.Message})
}

// EncodeWelcome acknowledges a fresh registration.
func (Codec) EncodeWelcome(nick string) []byte {
	return marshal(nickFrame{Nick: nick})
}

// EncodeNickAck acknowledges a rename.
func (Codec) EncodeNickAck(nick string) []byte {
	return marshal(nickFrame{Nick: nick})
}

// EncodeHistory delivers the replayed lines as a single frame, empty list
// included.
func (Codec) EncodeHistory(_ string, texts []string) []byte {
	if texts == nil {
		texts = []string{}
	}
	return marshal(historyFrame{Msgs: texts})
}

var _ core.Codec = Codec{}
