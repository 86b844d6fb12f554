package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/infra/metrics"
	"catalog-broadcast-bot/internal/usecase"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all bot commands. Everything except /start is operator-only.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,

		"add":    r.adminOnly(r.handleAddCommand),
		"list":   r.adminOnly(r.handleListCommand),
		"delete": r.adminOnly(r.handleListCommand),
		"elon":   r.adminOnly(r.handleAnnounceCommand),
		"help":   r.adminOnly(r.handleHelpCommand),
	}
}

func (r *RealTelegramBotAdapter) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	name := message.Command()
	handler, ok := r.commandRoutes()[name]
	if !ok {
		return nil
	}
	metrics.IncTelegramCommand("/" + name)
	return handler(ctx, message)
}

// adminOnly drops commands from senders outside the operator allow-list without replying.
func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if !r.isOperator(message.From) {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return nil
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(logging.WithOperatorID(ctx, message.From.ID), message)
	}
}

// handleStartCommand registers the chat and greets operators and users differently.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	isOp := r.isOperator(message.From)
	res, err := r.facade.HandleStart(ctx, message.Chat.ID, message.Chat.Type, isOp)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("start failed")
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}

	text := r.translator.T("welcome_user")
	if isOp {
		text = r.translator.T("welcome_operator", res.Subscribers)
	}
	if rows := r.shopButtons(); rows != nil {
		return r.replyWithButtons(ctx, message.Chat.ID, text, rows)
	}
	return r.reply(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleAddCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.reply(ctx, message.Chat.ID, r.translator.T("add_instructions"))
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.reply(ctx, message.Chat.ID, r.translator.T("help_operator"))
}

// handleListCommand sends every product as a photo with edit and delete buttons.
func (r *RealTelegramBotAdapter) handleListCommand(ctx context.Context, message *tgbotapi.Message) error {
	log := logging.With(ctx, r.log)
	products, err := r.facade.CatalogUC.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list products failed")
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_upstream", err.Error()))
	}
	if len(products) == 0 {
		return r.reply(ctx, message.Chat.ID, r.translator.T("list_empty"))
	}

	for i := range products {
		p := &products[i]
		edit, err1 := model.EditPayload(p.ID).Encode()
		del, err2 := model.DeletePayload(p.ID).Encode()
		if err := errors.Join(err1, err2); err != nil {
			log.Warn().Err(err).Str("product_id", p.ID).Msg("product id does not fit a button")
			continue
		}
		err := r.sender.SendPhoto(ctx, adapter.SendPhotoParams{
			ChatID:    message.Chat.ID,
			PhotoURL:  p.Image,
			Caption:   usecase.ProductCaption(r.translator, p),
			ParseMode: "HTML",
			ReplyMarkup: &adapter.ReplyMarkup{IsInline: true, Buttons: [][]adapter.Button{{
				{Text: r.translator.T("button_edit"), Data: edit},
				{Text: r.translator.T("button_delete"), Data: del},
			}}},
		})
		if err != nil {
			log.Warn().Err(err).Str("product_id", p.ID).Msg("failed to send product listing")
		}
	}
	return nil
}

// handleAnnounceCommand fans "/elon <text>" out to every recipient.
func (r *RealTelegramBotAdapter) handleAnnounceCommand(ctx context.Context, message *tgbotapi.Message) error {
	n, err := r.facade.HandleAnnounce(ctx, message.CommandArguments())
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return r.reply(ctx, message.Chat.ID, r.translator.T("announce_usage"))
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Msg("announce failed")
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	return r.reply(ctx, message.Chat.ID, r.translator.T("announce_sent", n))
}
