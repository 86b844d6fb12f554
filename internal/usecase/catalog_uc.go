package usecase

import (
	"context"
	"errors"
	"fmt"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/domain/ports/repository"
	"catalog-broadcast-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// CatalogUseCase covers the listing, delete and edit flows of the operator.
type CatalogUseCase interface {
	List(ctx context.Context) ([]model.Product, error)
	Delete(ctx context.Context, productID string) error
	// BeginEdit sends a force-reply prompt to chatID and ties it to productID.
	BeginEdit(ctx context.Context, chatID int64, productID, prompt string) error
	// ApplyEdit handles a reply to an edit prompt. Returns domain.ErrNoEditSession when
	// the replied message is not an open prompt and domain.ErrInvalidFormat (session kept)
	// for a short line.
	ApplyEdit(ctx context.Context, chatID int64, promptMessageID int, text string) (*model.Product, error)
}

type catalogUC struct {
	catalog  adapter.CatalogClient
	sessions repository.EditSessionRepository
	bot      adapter.TelegramBotAdapter
	log      *zerolog.Logger
}

func NewCatalogUseCase(
	catalog adapter.CatalogClient,
	sessions repository.EditSessionRepository,
	bot adapter.TelegramBotAdapter,
	logger *zerolog.Logger,
) CatalogUseCase {
	return &catalogUC{catalog: catalog, sessions: sessions, bot: bot, log: logger}
}

func (uc *catalogUC) List(ctx context.Context) ([]model.Product, error) {
	products, err := uc.catalog.List(ctx)
	if err != nil {
		return nil, domain.Upstream("catalog list", err)
	}
	return products, nil
}

func (uc *catalogUC) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return domain.ErrInvalidArgument
	}
	if err := uc.catalog.Delete(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.Upstream("catalog delete", err)
	}
	logging.With(ctx, uc.log).Info().Str("product_id", productID).Msg("product deleted")
	return nil
}

func (uc *catalogUC) BeginEdit(ctx context.Context, chatID int64, productID, prompt string) error {
	if productID == "" {
		return domain.ErrInvalidArgument
	}
	msgID, err := uc.bot.SendForceReply(ctx, chatID, prompt)
	if err != nil {
		return fmt.Errorf("send edit prompt: %w", err)
	}
	return uc.sessions.Open(ctx, repository.EditSession{ChatID: chatID, PromptMessageID: msgID, ProductID: productID})
}

func (uc *catalogUC) ApplyEdit(ctx context.Context, chatID int64, promptMessageID int, text string) (*model.Product, error) {
	sess, ok, err := uc.sessions.Get(ctx, chatID, promptMessageID)
	if err != nil {
		return nil, fmt.Errorf("load edit session: %w", err)
	}
	if !ok {
		return nil, domain.ErrNoEditSession
	}

	draft, err := model.ParseDraft(text)
	if err != nil {
		return nil, err
	}

	updated, err := uc.catalog.Update(ctx, sess.ProductID, model.PatchFromDraft(draft))
	if cerr := uc.sessions.Close(ctx, chatID, promptMessageID); cerr != nil {
		logging.With(ctx, uc.log).Warn().Err(cerr).Msg("failed to close edit session")
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.Upstream("catalog update", err)
	}
	logging.With(ctx, uc.log).Info().Str("product_id", sess.ProductID).Msg("product updated")
	return updated, nil
}
