//go:build !integration

package web

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type mockProductRepo struct {
	mu       sync.Mutex
	products []model.Product
	seq      int

	ListError   error
	CreateError error
	PanicOnList bool
}

func (m *mockProductRepo) List(ctx context.Context) ([]model.Product, error) {
	if m.PanicOnList {
		panic("boom")
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *mockProductRepo) Create(ctx context.Context, p *model.Product) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = fmt.Sprintf("prod-%d", m.seq)
	m.products = append(m.products, *p)
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].Apply(patch)
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
