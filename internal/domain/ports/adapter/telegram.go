// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// Button is an inline keyboard button. Exactly one of Data or URL is expected.
type Button struct {
	Text string
	Data string
	URL  string
}

type ReplyMarkup struct {
	Buttons    [][]Button
	IsInline   bool
	ForceReply bool
}

type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

type SendPhotoParams struct {
	ChatID      int64
	PhotoURL    string
	Caption     string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// TelegramBotAdapter is the outbound side of the messaging gateway.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	SendPhoto(ctx context.Context, params SendPhotoParams) error
	// SendForceReply sends a prompt that asks the client to reply to it and returns its message id.
	SendForceReply(ctx context.Context, chatID int64, text string) (int, error)
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	// FileURL resolves a chat-hosted file id to a temporary download URL.
	FileURL(ctx context.Context, fileID string) (string, error)
}
