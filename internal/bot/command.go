package bot

import "strings"

// CommandKind tags the parsed form of an inbound /start command
type CommandKind int

const (
	// CommandUnrecognized covers everything that is not an actionable
	// command; the dispatcher stays silent for these.
	CommandUnrecognized CommandKind = iota
	// CommandCreate is a bare /start: the sender wants to set up a party.
	CommandCreate
	// CommandOpen is /start <token>: the sender followed a party deep link.
	CommandOpen
)

// Command is the parsed form of an inbound message text
type Command struct {
	Kind  CommandKind
	Token string
}

// ParseCommand classifies raw message text. A bare /start is the create
// form, /start with exactly one argument is the open form carrying a
// party token, anything else is unrecognized.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{Kind: CommandUnrecognized}
	}

	// Telegram appends the bot name in group chats: /start@partyfox_bot
	command := fields[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	if command != "/start" {
		return Command{Kind: CommandUnrecognized}
	}

	switch len(fields) {
	case 1:
		return Command{Kind: CommandCreate}
	case 2:
		return Command{Kind: CommandOpen, Token: fields[1]}
	default:
		return Command{Kind: CommandUnrecognized}
	}
}
