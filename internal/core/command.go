package core

// CommandKind describes what a session wants to do.
type CommandKind int

const (
	// CommandSetNick registers or renames the session's nickname.
	CommandSetNick CommandKind = iota
	// CommandSendMessage delivers a chat message to a channel.
	CommandSendMessage
	// CommandJoinChannel subscribes the session's user to a channel.
	CommandJoinChannel
	// CommandPartChannel unsubscribes the session's user from a channel.
	CommandPartChannel
	// CommandDisconnect tears the session down.
	CommandDisconnect
)

// Command is one decoded inbound action.
type Command struct {
	Kind    CommandKind
	Nick    string
	Channel string
	Text    string
}
