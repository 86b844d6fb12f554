package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-broadcast-bot/internal/domain/ports/adapter"
)

// Client is the part of *tgbotapi.BotAPI the adapter uses.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var (
	_ Client                     = (*tgbotapi.BotAPI)(nil)
	_ adapter.TelegramBotAdapter = (*Sender)(nil)
)

// NewBotAPI connects to Telegram and verifies the token.
func NewBotAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	bot.Debug = debug
	return bot, nil
}

// Sender implements the outbound messaging port on top of tgbotapi.
type Sender struct {
	client Client
}

func NewSender(client Client) *Sender {
	return &Sender{client: client}
}

func (s *Sender) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		msg.ReplyMarkup = buildMarkup(params.ReplyMarkup)
	}
	_, err := s.client.Send(msg)
	return stripURL(err)
}

func (s *Sender) SendPhoto(ctx context.Context, params adapter.SendPhotoParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(params.ChatID, tgbotapi.FileURL(params.PhotoURL))
	photo.Caption = params.Caption
	photo.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		photo.ReplyMarkup = buildMarkup(params.ReplyMarkup)
	}
	_, err := s.client.Send(photo)
	return stripURL(err)
}

func (s *Sender) SendForceReply(ctx context.Context, chatID int64, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	sent, err := s.client.Send(msg)
	if err != nil {
		return 0, stripURL(err)
	}
	return sent.MessageID, nil
}

func (s *Sender) EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.client.Request(tgbotapi.NewEditMessageCaption(chatID, messageID, caption))
	return stripURL(err)
}

func (s *Sender) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := s.client.Request(tgbotapi.NewCallback(callbackID, text))
	return stripURL(err)
}

func (s *Sender) FileURL(ctx context.Context, fileID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	u, err := s.client.GetFileDirectURL(fileID)
	if err != nil {
		return "", stripURL(err)
	}
	return u, nil
}

// stripURL drops the request URL from transport errors. Bot API URLs embed
// the bot token, and these errors reach logs and operator replies.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// buildMarkup converts the port markup into a tgbotapi keyboard.
// A button with URL opens a link, otherwise it carries callback data.
func buildMarkup(m *adapter.ReplyMarkup) interface{} {
	if m.ForceReply {
		return tgbotapi.ForceReply{ForceReply: true, Selective: true}
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			if btn.URL != "" {
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			} else {
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			}
		}
		rows = append(rows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
