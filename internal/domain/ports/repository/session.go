package repository

import (
	"context"

	"catalog-broadcast-bot/internal/domain/model"
)

// PendingImageRepository holds at most one image URL per operator.
// Set overwrites any earlier value (last write wins).
type PendingImageRepository interface {
	Set(ctx context.Context, operatorID int64, imageURL string) error
	Get(ctx context.Context, operatorID int64) (string, bool, error)
	Clear(ctx context.Context, operatorID int64) error
}

// AwaitingDecisionRepository holds the created-but-unconfirmed product per operator.
// Put replaces an earlier entry and reports whether one was replaced.
// Take returns and removes the entry in one step.
type AwaitingDecisionRepository interface {
	Put(ctx context.Context, operatorID int64, p *model.Product) (replaced bool, err error)
	Take(ctx context.Context, operatorID int64) (*model.Product, bool, error)
}

// EditSession ties a force-reply prompt to the product being edited.
type EditSession struct {
	ChatID          int64
	PromptMessageID int
	ProductID       string
}

// EditSessionRepository tracks open edit prompts keyed by chat and prompt message.
type EditSessionRepository interface {
	Open(ctx context.Context, s EditSession) error
	Get(ctx context.Context, chatID int64, promptMessageID int) (*EditSession, bool, error)
	Close(ctx context.Context, chatID int64, promptMessageID int) error
}

// SubscriberRepository is an append-only set of chat identities per kind.
type SubscriberRepository interface {
	Register(ctx context.Context, chatID int64, kind model.ChatKind) (added bool, err error)
	List(ctx context.Context, kind model.ChatKind) ([]int64, error)
	Count(ctx context.Context, kind model.ChatKind) (int, error)
}
