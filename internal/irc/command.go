package irc

import (
	"strings"

	"github.com/duplexchat/duplexd/internal/core"
)

// DecodeCommands maps one parsed line onto hub commands. JOIN accepts a
// comma-separated channel list, producing one command per name. Unknown
// commands yield no commands and are ignored.
func DecodeCommands(msg Message) []*core.Command {
	param := func(i int) string {
		if i < len(msg.Params) {
			return msg.Params[i]
		}
		return ""
	}

	switch msg.Command {
	case "nick":
		return []*core.Command{{Kind: core.CommandSetNick, Nick: param(0)}}
	case "privmsg":
		return []*core.Command{{Kind: core.CommandSendMessage, Channel: param(0), Text: param(1)}}
	case "join":
		var cmds []*core.Command
		for _, name := range strings.Split(param(0), ",") {
			cmds = append(cmds, &core.Command{Kind: core.CommandJoinChannel, Channel: name})
		}
		return cmds
	case "part":
		return []*core.Command{{Kind: core.CommandPartChannel, Channel: param(0)}}
	case "quit":
		return []*core.Command{{Kind: core.CommandDisconnect}}
	default:
		return nil
	}
}
