package application

import (
	"context"
	"errors"
	"fmt"

	"catalog-broadcast-bot/internal/usecase"
)

var errUnavailable = errors.New("usecase not available")

// BotFacade composes the use cases the chat router needs.
type BotFacade struct {
	IntakeUC     usecase.IntakeUseCase
	BroadcastUC  usecase.BroadcastUseCase
	SubscriberUC usecase.SubscriberUseCase
	CatalogUC    usecase.CatalogUseCase
}

func NewBotFacade(
	intakeUC usecase.IntakeUseCase,
	broadcastUC usecase.BroadcastUseCase,
	subscriberUC usecase.SubscriberUseCase,
	catalogUC usecase.CatalogUseCase,
) *BotFacade {
	return &BotFacade{
		IntakeUC:     intakeUC,
		BroadcastUC:  broadcastUC,
		SubscriberUC: subscriberUC,
		CatalogUC:    catalogUC,
	}
}

// StartResult describes what /start did for a chat.
type StartResult struct {
	Registered  bool
	Subscribers int // filled for operators only
}

// HandleStart registers the chat as a broadcast recipient and, for operators,
// reports the current subscriber count.
func (b *BotFacade) HandleStart(ctx context.Context, chatID int64, chatType string, isOperator bool) (StartResult, error) {
	if b.SubscriberUC == nil {
		return StartResult{}, fmt.Errorf("subscriber %w", errUnavailable)
	}
	added, err := b.SubscriberUC.Register(ctx, chatID, chatType)
	if err != nil {
		return StartResult{}, fmt.Errorf("register chat: %w", err)
	}
	res := StartResult{Registered: added}
	if !isOperator {
		return res, nil
	}
	n, err := b.SubscriberUC.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count subscribers: %w", err)
	}
	res.Subscribers = n
	return res, nil
}

// HandleDecision applies an operator's yes/no answer and returns the number of
// recipients the product was dispatched to.
func (b *BotFacade) HandleDecision(ctx context.Context, operatorID int64, affirmative bool) (int, error) {
	if b.BroadcastUC == nil {
		return 0, fmt.Errorf("broadcast %w", errUnavailable)
	}
	d, err := b.BroadcastUC.Decide(ctx, operatorID, affirmative)
	if err != nil {
		return 0, err
	}
	return d.Recipients, nil
}

// HandleAnnounce dispatches a text announcement and returns the recipient count.
func (b *BotFacade) HandleAnnounce(ctx context.Context, text string) (int, error) {
	if b.BroadcastUC == nil {
		return 0, fmt.Errorf("broadcast %w", errUnavailable)
	}
	d, err := b.BroadcastUC.Announce(ctx, text)
	if err != nil {
		return 0, err
	}
	return d.Recipients, nil
}
