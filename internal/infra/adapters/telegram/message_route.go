package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/infra/logging"
)

// handleMessage routes operator photos, product lines and edit replies.
// Messages from anyone else are ignored.
func (r *RealTelegramBotAdapter) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if !r.isOperator(message.From) {
		return nil
	}
	ctx = logging.WithOperatorID(ctx, message.From.ID)

	if message.ReplyToMessage != nil && message.Text != "" {
		handled, err := r.handleEditReply(ctx, message)
		if handled {
			return err
		}
	}
	if len(message.Photo) > 0 {
		return r.handlePhoto(ctx, message)
	}
	if message.Text != "" {
		return r.handleProductLine(ctx, message)
	}
	return nil
}

func (r *RealTelegramBotAdapter) handleEditReply(ctx context.Context, message *tgbotapi.Message) (bool, error) {
	_, err := r.facade.CatalogUC.ApplyEdit(ctx, message.Chat.ID, message.ReplyToMessage.MessageID, message.Text)
	switch {
	case errors.Is(err, domain.ErrNoEditSession):
		return false, nil
	case errors.Is(err, domain.ErrInvalidFormat):
		return true, r.reply(ctx, message.Chat.ID, r.translator.T("error_format"))
	case errors.Is(err, domain.ErrNotFound):
		return true, r.reply(ctx, message.Chat.ID, r.translator.T("product_not_found"))
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Msg("edit product failed")
		return true, r.reply(ctx, message.Chat.ID, r.translator.T("error_upstream", err.Error()))
	}
	return true, r.reply(ctx, message.Chat.ID, r.translator.T("product_updated"))
}

// handlePhoto records the largest resolution of the photo as the pending image.
func (r *RealTelegramBotAdapter) handlePhoto(ctx context.Context, message *tgbotapi.Message) error {
	best := largestPhoto(message.Photo)
	fileURL, err := r.sender.FileURL(ctx, best.FileID)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Str("file_id", best.FileID).Msg("resolve photo url failed")
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_upstream", err.Error()))
	}
	if err := r.facade.IntakeUC.BeginUpload(ctx, message.From.ID, fileURL); err != nil {
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}
	return r.reply(ctx, message.Chat.ID, r.translator.T("photo_received"))
}

// handleProductLine commits a Name;Type;Price;Description;Age line and asks whether to broadcast.
func (r *RealTelegramBotAdapter) handleProductLine(ctx context.Context, message *tgbotapi.Message) error {
	operatorID := message.From.ID
	product, err := r.facade.IntakeUC.SubmitDetails(ctx, operatorID, message.Text)

	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrNoPendingImage):
		return nil
	case errors.Is(err, domain.ErrInvalidFormat):
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_format"))
	case errors.As(err, &upstream):
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_upstream", upstream.Error()))
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Msg("product intake failed")
		return r.reply(ctx, message.Chat.ID, r.translator.T("error_generic"))
	}

	id := strconv.FormatInt(operatorID, 10)
	yes, err1 := model.NotifyPayload(true, id).Encode()
	no, err2 := model.NotifyPayload(false, id).Encode()
	if err := errors.Join(err1, err2); err != nil {
		return err
	}
	return r.replyWithButtons(ctx, message.Chat.ID, r.translator.T("product_created", product.Name), [][]adapter.Button{{
		{Text: r.translator.T("button_yes"), Data: yes},
		{Text: r.translator.T("button_no"), Data: no},
	}})
}

func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}
