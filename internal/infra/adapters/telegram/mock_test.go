//go:build !integration

package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
)

// ---- fake tgbotapi client ----

type fakeClient struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	failFor  map[int64]bool
	fileErr  error
	updates  chan tgbotapi.Update
}

var _ Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{failFor: map[int64]bool{}, nextID: 500, updates: make(chan tgbotapi.Update)}
}

func chatOf(c tgbotapi.Chattable) int64 {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.ChatID
	case tgbotapi.PhotoConfig:
		return v.ChatID
	}
	return 0
}

func (f *fakeClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	if f.failFor[chatOf(c)] {
		return tgbotapi.Message{}, fmt.Errorf("Forbidden: bot was blocked by the user")
	}
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeClient) GetFileDirectURL(fileID string) (string, error) {
	if f.fileErr != nil {
		return "", f.fileErr
	}
	return "https://api.telegram.org/file/bot/" + fileID, nil
}

func (f *fakeClient) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeClient) StopReceivingUpdates() {}

func (f *fakeClient) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeClient) photosTo(chatID int64) []tgbotapi.PhotoConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.PhotoConfig
	for _, c := range f.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok && p.ChatID == chatID {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeClient) lastTextTo(chatID int64) string {
	ms := f.messagesTo(chatID)
	if len(ms) == 0 {
		return ""
	}
	return ms[len(ms)-1].Text
}

func (f *fakeClient) captionEdits() []tgbotapi.EditMessageCaptionConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.EditMessageCaptionConfig
	for _, c := range f.requests {
		if e, ok := c.(tgbotapi.EditMessageCaptionConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

// ---- fake catalog and image host ----

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]model.Product
	order    []string
	seq      int
	err      error
}

func newFakeCatalog(seed ...model.Product) *fakeCatalog {
	c := &fakeCatalog{products: map[string]model.Product{}}
	for _, p := range seed {
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

func (c *fakeCatalog) List(ctx context.Context) ([]model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	var out []model.Product
	for _, id := range c.order {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.seq++
	out := *p
	out.ID = fmt.Sprintf("id%d", c.seq)
	c.products[out.ID] = out
	c.order = append(c.order, out.ID)
	return &out, nil
}

func (c *fakeCatalog) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Apply(patch)
	c.products[id] = p
	return &p, nil
}

func (c *fakeCatalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.products, id)
	return nil
}

func (c *fakeCatalog) get(id string) (model.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	return p, ok
}

type fakeImageHost struct{ err error }

func (h *fakeImageHost) Upload(ctx context.Context, sourceURL string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "https://i.ibb.co/" + sourceURL[strings.LastIndex(sourceURL, "/")+1:], nil
}

// ---- update builders ----

func commandUpdate(from, chatID int64, chatType, text string) tgbotapi.Update {
	cmd := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: chatID, Type: chatType},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func textUpdate(from int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from, Type: "private"},
		Text: text,
	}}
}

func replyUpdate(from int64, replyTo int, text string) tgbotapi.Update {
	up := textUpdate(from, text)
	up.Message.ReplyToMessage = &tgbotapi.Message{MessageID: replyTo}
	return up
}

func photoUpdate(from int64, fileIDs ...string) tgbotapi.Update {
	var sizes []tgbotapi.PhotoSize
	for i, id := range fileIDs {
		sizes = append(sizes, tgbotapi.PhotoSize{FileID: id, Width: 90 * (i + 1), Height: 90 * (i + 1)})
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:  &tgbotapi.User{ID: from},
		Chat:  &tgbotapi.Chat{ID: from, Type: "private"},
		Photo: sizes,
	}}
}

func callbackUpdate(from int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: from, Type: "private"}},
		Data:    data,
	}}
}

var errUpload = errors.New("imgbb status 400: invalid key")

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
