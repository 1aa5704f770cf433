// Package product manages the product catalog and its persistence.
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Product represents a catalog entry. ThumbnailURL is transient: computed
// from a freshly minted capability token at read time, never persisted.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`

	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

// Repository handles all product database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product and returns the created record.
func (r *Repository) Create(ctx context.Context, name, description string, price float64) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, description, price)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, description, price`,
		name, description, price,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// GetByID fetches a product by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, price FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// List returns all products ordered by id.
func (r *Repository) List(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Delete removes a product row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
