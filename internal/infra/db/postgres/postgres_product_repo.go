package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.ProductRepository = (*PostgresProductRepo)(nil)

// querier is the subset of pgxpool.Pool the repo needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type PostgresProductRepo struct {
	db querier
}

func NewPostgresProductRepo(pool *pgxpool.Pool) *PostgresProductRepo {
	return &PostgresProductRepo{db: pool}
}

const productColumns = `id, name, type, price, image, description, age, available`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Price, &p.Image, &p.Description, &p.Age, &p.Available); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProductRepo) List(ctx context.Context) ([]model.Product, error) {
	const sql = `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id;`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("List products: %w", err)
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Create assigns a fresh uuid when p has no id.
func (r *PostgresProductRepo) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const sql = `
INSERT INTO products (` + productColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.db.Exec(ctx, sql, p.ID, p.Name, p.Type, p.Price, p.Image, p.Description, p.Age, p.Available)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: product %s already exists", domain.ErrInvalidArgument, p.ID)
		}
		return fmt.Errorf("Create product: %w", err)
	}
	return nil
}

// Update applies the non-nil patch fields in one statement.
func (r *PostgresProductRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	const sql = `
UPDATE products
   SET name        = COALESCE($2, name),
       type        = COALESCE($3, type),
       price       = COALESCE($4, price),
       image       = COALESCE($5, image),
       description = COALESCE($6, description),
       age         = COALESCE($7, age),
       available   = COALESCE($8, available)
 WHERE id = $1
RETURNING ` + productColumns + `;
`
	row := r.db.QueryRow(ctx, sql, id,
		patch.Name, patch.Type, patch.Price, patch.Image, patch.Description, patch.Age, patch.Available)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("Update product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("Delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
