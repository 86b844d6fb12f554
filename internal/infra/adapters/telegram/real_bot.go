package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/application"
	"catalog-broadcast-bot/internal/config"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/usecase"
)

// RealTelegramBotAdapter polls updates with tgbotapi and routes them to the BotFacade.
type RealTelegramBotAdapter struct {
	client     Client
	sender     adapter.TelegramBotAdapter
	cfg        *config.BotConfig
	facade     *application.BotFacade
	translator usecase.Translator
	log        *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
	mu            sync.Mutex
}

func NewRealTelegramBotAdapter(
	client Client,
	sender adapter.TelegramBotAdapter,
	cfg *config.BotConfig,
	facade *application.BotFacade,
	translator usecase.Translator,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if client == nil || sender == nil {
		return nil, errors.New("telegram client is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	return &RealTelegramBotAdapter{
		client:        client,
		sender:        sender,
		cfg:           cfg,
		facade:        facade,
		translator:    translator,
		log:           logger,
		adminIDsMap:   adminMap,
		updateWorkers: workers,
	}, nil
}

// StartPolling consumes updates with a fixed set of workers until ctx is done or StopPolling is called.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.client.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancelPolling = cancel
	r.mu.Unlock()
	defer r.client.StopReceivingUpdates()

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					r.dispatch(ctx, id, up)
				}
			}
		}(i)
	}

	r.log.Info().Int("workers", r.updateWorkers).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			r.log.Info().Msg("telegram polling stopped")
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				cancel()
				continue
			}
			select {
			case updateChan <- up:
			case <-ctx.Done():
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// dispatch runs one update with its own trace id and keeps a panic from killing the worker.
func (r *RealTelegramBotAdapter) dispatch(ctx context.Context, worker int, up tgbotapi.Update) {
	ctx = logging.WithTraceID(ctx, logging.NewTraceID())
	if chat := up.FromChat(); chat != nil {
		ctx = logging.WithChatID(ctx, chat.ID)
	}
	log := logging.With(ctx, r.log)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Int("worker", worker).Int("update_id", up.UpdateID).Msg("update handler panicked")
		}
	}()

	if err := r.handleUpdate(ctx, up); err != nil {
		log.Warn().Err(err).Int("worker", worker).Int("update_id", up.UpdateID).Msg("update handling failed")
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}
	if msg.IsCommand() {
		return r.handleCommand(ctx, msg)
	}
	return r.handleMessage(ctx, msg)
}

func (r *RealTelegramBotAdapter) isOperator(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	_, ok := r.adminIDsMap[user.ID]
	return ok
}

func (r *RealTelegramBotAdapter) reply(ctx context.Context, chatID int64, text string) error {
	return r.sender.SendMessage(ctx, adapter.SendMessageParams{ChatID: chatID, Text: text})
}

func (r *RealTelegramBotAdapter) replyWithButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.Button) error {
	return r.sender.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: &adapter.ReplyMarkup{IsInline: true, Buttons: rows},
	})
}

func (r *RealTelegramBotAdapter) shopButtons() [][]adapter.Button {
	if r.cfg.ShopURL == "" {
		return nil
	}
	return [][]adapter.Button{{{Text: r.translator.T("button_shop"), URL: r.cfg.ShopURL}}}
}
