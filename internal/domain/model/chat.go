package model

// ChatKind classifies a chat identity for the subscriber registry.
type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group"
	ChatChannel ChatKind = "channel"
)

// ChatKindOf maps a Telegram chat type string to a ChatKind.
func ChatKindOf(chatType string) ChatKind {
	switch chatType {
	case "private":
		return ChatPrivate
	case "group", "supergroup":
		return ChatGroup
	default:
		return ChatChannel
	}
}
