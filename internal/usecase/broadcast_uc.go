package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/domain/ports/repository"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/infra/metrics"
	"catalog-broadcast-bot/internal/infra/worker"

	"github.com/rs/zerolog"
)

type BroadcastUseCase interface {
	// RecordAwaiting stores p as the operator's undecided product, replacing any earlier one.
	RecordAwaiting(ctx context.Context, operatorID int64, p *model.Product) error
	// Decide consumes the awaiting product. When affirmative it is fanned out to every
	// recipient and the broadcast channel. Returns domain.ErrNotFound if nothing is awaiting.
	Decide(ctx context.Context, operatorID int64, affirmative bool) (*Dispatch, error)
	// Announce fans a plain text announcement out to the same recipients.
	Announce(ctx context.Context, text string) (*Dispatch, error)
}

// BroadcastOptions configures fan-out destinations and pacing.
type BroadcastOptions struct {
	ChannelID     int64  // 0 disables the channel
	BotUsername   string // used for the channel deep link
	ShopURL       string
	RatePerSecond int // 0 disables throttling
}

// Dispatch tracks one fan-out. Done is closed when every delivery attempt has finished.
type Dispatch struct {
	Recipients int
	delivered  atomic.Int64
	failed     atomic.Int64
	done       chan struct{}
}

func newDispatch(n int) *Dispatch {
	return &Dispatch{Recipients: n, done: make(chan struct{})}
}

func (d *Dispatch) Done() <-chan struct{} { return d.done }
func (d *Dispatch) Delivered() int        { return int(d.delivered.Load()) }
func (d *Dispatch) Failed() int           { return int(d.failed.Load()) }

type broadcastUC struct {
	awaiting    repository.AwaitingDecisionRepository
	subscribers SubscriberUseCase
	bot         adapter.TelegramBotAdapter
	workerPool  *worker.Pool
	tr          Translator
	opts        BroadcastOptions
	log         *zerolog.Logger
}

func NewBroadcastUseCase(
	awaiting repository.AwaitingDecisionRepository,
	subscribers SubscriberUseCase,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	tr Translator,
	opts BroadcastOptions,
	logger *zerolog.Logger,
) BroadcastUseCase {
	return &broadcastUC{
		awaiting:    awaiting,
		subscribers: subscribers,
		bot:         bot,
		workerPool:  pool,
		tr:          tr,
		opts:        opts,
		log:         logger,
	}
}

func (uc *broadcastUC) RecordAwaiting(ctx context.Context, operatorID int64, p *model.Product) error {
	replaced, err := uc.awaiting.Put(ctx, operatorID, p)
	if err != nil {
		return fmt.Errorf("record awaiting product: %w", err)
	}
	if replaced {
		// last write wins: the earlier undecided product is never broadcast
		logging.With(ctx, uc.log).Warn().Int64("operator_id", operatorID).Str("product_id", p.ID).
			Msg("replaced an undecided product")
	}
	return nil
}

func (uc *broadcastUC) Decide(ctx context.Context, operatorID int64, affirmative bool) (*Dispatch, error) {
	p, ok, err := uc.awaiting.Take(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("take awaiting product: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	log := logging.With(ctx, uc.log)
	if !affirmative {
		log.Info().Int64("operator_id", operatorID).Str("product_id", p.ID).Msg("broadcast declined")
		d := newDispatch(0)
		close(d.done)
		return d, nil
	}

	recipients, err := uc.recipients(ctx)
	if err != nil {
		return nil, err
	}

	caption := ProductCaption(uc.tr, p)
	channelCaption := caption
	if link := uc.deepLink(); link != "" {
		channelCaption += uc.tr.T("caption_order_link", link)
	}
	markup := uc.shopMarkup()

	log.Info().Str("product_id", p.ID).Int("recipients", len(recipients)).Msg("broadcasting product")
	return uc.fanOut(ctx, "product", recipients, func(ctx context.Context, r Recipient) error {
		params := adapter.SendPhotoParams{
			ChatID:      r.ChatID,
			PhotoURL:    p.Image,
			Caption:     caption,
			ParseMode:   "HTML",
			ReplyMarkup: markup,
		}
		if r.Target == TargetChannel {
			params.Caption = channelCaption
			params.ReplyMarkup = nil
		}
		return uc.bot.SendPhoto(ctx, params)
	}), nil
}

func (uc *broadcastUC) Announce(ctx context.Context, text string) (*Dispatch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}
	recipients, err := uc.recipients(ctx)
	if err != nil {
		return nil, err
	}
	body := uc.tr.T("announce_text", text)
	return uc.fanOut(ctx, "announcement", recipients, func(ctx context.Context, r Recipient) error {
		return uc.bot.SendMessage(ctx, adapter.SendMessageParams{ChatID: r.ChatID, Text: body})
	}), nil
}

func (uc *broadcastUC) recipients(ctx context.Context) ([]Recipient, error) {
	out, err := uc.subscribers.Recipients(ctx)
	if err != nil {
		return nil, err
	}
	if uc.opts.ChannelID != 0 {
		out = append(out, Recipient{ChatID: uc.opts.ChannelID, Target: TargetChannel})
	}
	return out, nil
}

// sendInterval is the pause between deliveries, 0 when unthrottled.
func (uc *broadcastUC) sendInterval() time.Duration {
	if uc.opts.RatePerSecond <= 0 {
		return 0
	}
	return time.Second / time.Duration(uc.opts.RatePerSecond)
}

func (uc *broadcastUC) deepLink() string {
	if uc.opts.BotUsername == "" {
		return ""
	}
	return "https://t.me/" + strings.TrimPrefix(uc.opts.BotUsername, "@") + "?start=from_group"
}

func (uc *broadcastUC) shopMarkup() *adapter.ReplyMarkup {
	if uc.opts.ShopURL == "" {
		return nil
	}
	return &adapter.ReplyMarkup{
		IsInline: true,
		Buttons:  [][]adapter.Button{{{Text: uc.tr.T("button_shop"), URL: uc.opts.ShopURL}}},
	}
}

// fanOut submits one pool task per recipient from a background goroutine and returns at once.
// A failed delivery is logged and counted; it never stops the others.
func (uc *broadcastUC) fanOut(ctx context.Context, name string, recipients []Recipient, send func(context.Context, Recipient) error) *Dispatch {
	d := newDispatch(len(recipients))
	ctx = context.WithoutCancel(ctx)
	log := logging.With(ctx, uc.log).With().Str("broadcast", name).Logger()

	record := func(r Recipient, err error) {
		metrics.IncBroadcastDelivery(r.Target, metrics.StatusOf(err))
		if err != nil {
			d.failed.Add(1)
			log.Warn().Err(err).Int64("chat_id", r.ChatID).Str("target", r.Target).Msg("broadcast delivery failed")
			return
		}
		d.delivered.Add(1)
	}

	go func() {
		defer close(d.done)

		var throttle <-chan time.Time
		if interval := uc.sendInterval(); interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			throttle = ticker.C
		}

		var wg sync.WaitGroup
		for _, r := range recipients {
			if throttle != nil {
				<-throttle
			}
			r := r
			wg.Add(1)
			task := func(taskCtx context.Context) error {
				defer wg.Done()
				record(r, send(taskCtx, r))
				return nil // failures are recorded above, not reported to the pool
			}
			if err := uc.workerPool.SubmitWait(ctx, task); err != nil {
				wg.Done()
				record(r, err)
			}
		}
		wg.Wait()

		log.Info().
			Int("recipients", d.Recipients).
			Int("delivered", d.Delivered()).
			Int("failed", d.Failed()).
			Msg("broadcast finished")
	}()
	return d
}
