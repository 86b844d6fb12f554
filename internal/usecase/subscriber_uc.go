package usecase

import (
	"context"
	"fmt"

	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Recipient is one broadcast destination.
type Recipient struct {
	ChatID int64
	Target string // subscriber | group | channel
}

const (
	TargetSubscriber = "subscriber"
	TargetGroup      = "group"
	TargetChannel    = "channel"
)

type SubscriberUseCase interface {
	// Register records a chat that issued /start. Group chats are kept only when group tracking is on.
	Register(ctx context.Context, chatID int64, chatType string) (bool, error)
	// Count returns the number of registered private chats.
	Count(ctx context.Context) (int, error)
	// Recipients snapshots every registered broadcast target.
	Recipients(ctx context.Context) ([]Recipient, error)
}

type subscriberUC struct {
	repo        repository.SubscriberRepository
	trackGroups bool
	log         *zerolog.Logger
}

func NewSubscriberUseCase(repo repository.SubscriberRepository, trackGroups bool, logger *zerolog.Logger) SubscriberUseCase {
	return &subscriberUC{repo: repo, trackGroups: trackGroups, log: logger}
}

func (uc *subscriberUC) Register(ctx context.Context, chatID int64, chatType string) (bool, error) {
	kind := model.ChatKindOf(chatType)
	switch {
	case kind == model.ChatPrivate:
	case kind == model.ChatGroup && uc.trackGroups:
	default:
		return false, nil
	}

	added, err := uc.repo.Register(ctx, chatID, kind)
	if err != nil {
		return false, fmt.Errorf("register %s chat: %w", kind, err)
	}
	if added {
		metrics.IncSubscriberRegistered(string(kind))
		logging.With(ctx, uc.log).Info().Int64("chat_id", chatID).Str("kind", string(kind)).Msg("subscriber registered")
	}
	return added, nil
}

func (uc *subscriberUC) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx, model.ChatPrivate)
}

func (uc *subscriberUC) Recipients(ctx context.Context) ([]Recipient, error) {
	private, err := uc.repo.List(ctx, model.ChatPrivate)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	out := make([]Recipient, 0, len(private))
	for _, id := range private {
		out = append(out, Recipient{ChatID: id, Target: TargetSubscriber})
	}
	if !uc.trackGroups {
		return out, nil
	}
	groups, err := uc.repo.List(ctx, model.ChatGroup)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	for _, id := range groups {
		out = append(out, Recipient{ChatID: id, Target: TargetGroup})
	}
	return out, nil
}
