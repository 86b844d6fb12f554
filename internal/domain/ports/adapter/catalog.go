package adapter

import (
	"context"

	"catalog-broadcast-bot/internal/domain/model"
)

// CatalogClient talks to the catalog store. Failures are reported as *domain.UpstreamError;
// an unknown product id additionally matches domain.ErrNotFound.
type CatalogClient interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}
