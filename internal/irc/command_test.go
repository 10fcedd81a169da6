package irc

import (
	"testing"

	"github.com/duplexchat/duplexd/internal/core"
)

func decodeOne(t *testing.T, line string) *core.Command {
	t.Helper()

	msg, err := ParseMessage(line)
	if err != nil {
		t.Fatalf("ParseMessage(%q): %v", line, err)
	}
	cmds := DecodeCommands(msg)
	if len(cmds) != 1 {
		t.Fatalf("DecodeCommands(%q) yielded %d commands, want 1", line, len(cmds))
	}
	return cmds[0]
}

func TestDecodeCommands(t *testing.T) {
	cmd := decodeOne(t, "NICK alice")
	if cmd.Kind != core.CommandSetNick || cmd.Nick != "alice" {
		t.Fatalf("NICK decoded to %+v", cmd)
	}

	cmd = decodeOne(t, "PRIVMSG #general :hi there")
	if cmd.Kind != core.CommandSendMessage || cmd.Channel != "#general" || cmd.Text != "hi there" {
		t.Fatalf("PRIVMSG decoded to %+v", cmd)
	}

	cmd = decodeOne(t, "PART #general")
	if cmd.Kind != core.CommandPartChannel || cmd.Channel != "#general" {
		t.Fatalf("PART decoded to %+v", cmd)
	}

	cmd = decodeOne(t, "QUIT")
	if cmd.Kind != core.CommandDisconnect {
		t.Fatalf("QUIT decoded to %+v", cmd)
	}
}

func TestDecodeJoinList(t *testing.T) {
	msg, err := ParseMessage("JOIN #a,#b,#c")
	if err != nil {
		t.Fatal(err)
	}
	cmds := DecodeCommands(msg)
	if len(cmds) != 3 {
		t.Fatalf("JOIN list yielded %d commands, want 3", len(cmds))
	}
	for i, want := range []string{"#a", "#b", "#c"} {
		if cmds[i].Kind != core.CommandJoinChannel || cmds[i].Channel != want {
			t.Fatalf("command %d = %+v, want join %s", i, cmds[i], want)
		}
	}
}

func TestDecodeMissingParams(t *testing.T) {
	cmd := decodeOne(t, "NICK")
	if cmd.Kind != core.CommandSetNick || cmd.Nick != "" {
		t.Fatalf("bare NICK decoded to %+v", cmd)
	}

	cmd = decodeOne(t, "PRIVMSG #general")
	if cmd.Kind != core.CommandSendMessage || cmd.Text != "" {
		t.Fatalf("PRIVMSG without text decoded to %+v", cmd)
	}
}

func TestDecodeUnknownCommandIgnored(t *testing.T) {
	msg, err := ParseMessage("WHOIS alice")
	if err != nil {
		t.Fatal(err)
	}
	if cmds := DecodeCommands(msg); cmds != nil {
		t.Fatalf("unknown command yielded %+v", cmds)
	}
}
