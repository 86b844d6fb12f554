package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/infra/metrics"
)

type cbHandler func(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, payload model.CallbackPayload) error

func (r *RealTelegramBotAdapter) cbRoutes() map[model.CallbackKind]cbHandler {
	return map[model.CallbackKind]cbHandler{
		model.CallbackNotify: r.notifyCBRoute,
		model.CallbackDelete: r.deleteCBRoute,
		model.CallbackEdit:   r.editCBRoute,
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query.From == nil {
		return errors.New("invalid callback query")
	}

	// stop the client spinner when we return
	defer func() {
		if err := r.sender.AnswerCallback(ctx, query.ID, ""); err != nil {
			logging.With(ctx, r.log).Debug().Err(err).Msg("answer callback failed")
		}
	}()

	payload, err := model.DecodeCallback(query.Data)
	if err != nil {
		logging.With(ctx, r.log).Debug().Str("data", query.Data).Msg("ignoring unknown callback")
		return nil
	}
	metrics.IncCallback(string(payload.Kind))

	if !r.isOperator(query.From) {
		return nil
	}
	ctx = logging.WithOperatorID(ctx, query.From.ID)

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}

	fn, ok := r.cbRoutes()[payload.Kind]
	if !ok {
		return nil
	}
	return fn(ctx, query, chatID, payload)
}

// notifyCBRoute answers the "notify subscribers?" prompt.
func (r *RealTelegramBotAdapter) notifyCBRoute(ctx context.Context, _ *tgbotapi.CallbackQuery, chatID int64, p model.CallbackPayload) error {
	operatorID, err := strconv.ParseInt(p.Value, 10, 64)
	if err != nil {
		return r.reply(ctx, chatID, r.translator.T("broadcast_not_found"))
	}

	affirmative := p.Action == model.ActionYes
	n, err := r.facade.HandleDecision(ctx, operatorID, affirmative)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return r.reply(ctx, chatID, r.translator.T("broadcast_not_found"))
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Msg("broadcast decision failed")
		return r.reply(ctx, chatID, r.translator.T("error_generic"))
	case !affirmative:
		return r.reply(ctx, chatID, r.translator.T("broadcast_not_sent"))
	}
	return r.reply(ctx, chatID, r.translator.T("broadcast_sent", n))
}

// deleteCBRoute removes the product and marks its listing as deleted.
func (r *RealTelegramBotAdapter) deleteCBRoute(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, p model.CallbackPayload) error {
	err := r.facade.CatalogUC.Delete(ctx, p.Value)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return r.reply(ctx, chatID, r.translator.T("product_not_found"))
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Str("product_id", p.Value).Msg("delete product failed")
		return r.reply(ctx, chatID, r.translator.T("error_upstream", err.Error()))
	}

	if query.Message != nil {
		if err := r.sender.EditCaption(ctx, chatID, query.Message.MessageID, r.translator.T("product_deleted")); err == nil {
			return nil
		}
	}
	return r.reply(ctx, chatID, r.translator.T("product_deleted"))
}

// editCBRoute opens a force-reply prompt for the product.
func (r *RealTelegramBotAdapter) editCBRoute(ctx context.Context, _ *tgbotapi.CallbackQuery, chatID int64, p model.CallbackPayload) error {
	if err := r.facade.CatalogUC.BeginEdit(ctx, chatID, p.Value, r.translator.T("edit_prompt")); err != nil {
		logging.With(ctx, r.log).Error().Err(err).Str("product_id", p.Value).Msg("begin edit failed")
		return r.reply(ctx, chatID, r.translator.T("error_generic"))
	}
	return nil
}
