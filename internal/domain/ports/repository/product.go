package repository

import (
	"context"

	"catalog-broadcast-bot/internal/domain/model"
)

// ProductRepository is the persistence port of the bundled catalog store.
// Update and Delete return domain.ErrNotFound for unknown ids.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}
