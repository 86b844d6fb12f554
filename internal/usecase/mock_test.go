//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/infra/i18n"
)

// =============================
// Adapters
// =============================

// ---- Mock TelegramBotAdapter ----

type MockTelegramBot struct {
	mu          sync.Mutex
	Sent        []adapter.SendMessageParams
	Photos      []adapter.SendPhotoParams
	ForceReplys []string
	nextMsgID   int

	SendMessageFunc func(ctx context.Context, params adapter.SendMessageParams) error
	SendPhotoFunc   func(ctx context.Context, params adapter.SendPhotoParams) error
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, params)
	fn := m.SendMessageFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, params)
	}
	return nil
}

func (m *MockTelegramBot) SendPhoto(ctx context.Context, params adapter.SendPhotoParams) error {
	m.mu.Lock()
	m.Photos = append(m.Photos, params)
	fn := m.SendPhotoFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, params)
	}
	return nil
}

func (m *MockTelegramBot) SendForceReply(ctx context.Context, chatID int64, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ForceReplys = append(m.ForceReplys, text)
	m.nextMsgID++
	return 1000 + m.nextMsgID, nil
}

func (m *MockTelegramBot) EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error {
	return nil
}

func (m *MockTelegramBot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

func (m *MockTelegramBot) FileURL(ctx context.Context, fileID string) (string, error) {
	return "https://files.example/" + fileID, nil
}

func (m *MockTelegramBot) PhotoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Photos)
}

func (m *MockTelegramBot) PhotosTo(chatID int64) []adapter.SendPhotoParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []adapter.SendPhotoParams
	for _, p := range m.Photos {
		if p.ChatID == chatID {
			out = append(out, p)
		}
	}
	return out
}

// ---- Mock CatalogClient ----

type MockCatalog struct {
	mu       sync.Mutex
	Created  []model.Product
	Updates  map[string]model.ProductPatch
	Deleted  []string
	products map[string]model.Product
	seq      int

	CreateErr error
	UpdateErr error
	DeleteErr error
	ListErr   error
}

var _ adapter.CatalogClient = (*MockCatalog)(nil)

func NewMockCatalog(seed ...model.Product) *MockCatalog {
	m := &MockCatalog{Updates: map[string]model.ProductPatch{}, products: map[string]model.Product{}}
	for _, p := range seed {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockCatalog) List(ctx context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockCatalog) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, *p)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.seq++
	out := *p
	out.ID = fmt.Sprintf("p%d", m.seq)
	m.products[out.ID] = out
	return &out, nil
}

func (m *MockCatalog) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.Updates[id] = patch
	p.Apply(patch)
	m.products[id] = p
	return &p, nil
}

func (m *MockCatalog) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockCatalog) CreateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

// ---- Mock ImageHost ----

type MockImageHost struct {
	mu      sync.Mutex
	Uploads []string
	Err     error
}

var _ adapter.ImageHost = (*MockImageHost)(nil)

func (m *MockImageHost) Upload(ctx context.Context, sourceURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, sourceURL)
	if m.Err != nil {
		return "", m.Err
	}
	return "https://i.ibb.co/" + sourceURL, nil
}

func (m *MockImageHost) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}

// =============================
// Helpers
// =============================

var errUpstream = errors.New("status 502: bad gateway")

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator() *i18n.Translator {
	testFS := fstest.MapFS{
		"locales/en.yaml": {
			Data: []byte(`
caption_product: "<b>%s</b> %s %s %s %s"
caption_order_link: " <a href=\"%s\">order</a>"
announce_text: "📢 %s"
button_shop: "Shop"
`),
		},
	}
	translator, _ := i18n.NewTranslator(testFS, "en")
	return translator
}

func waitDispatch(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}
