package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const productColumns = `id::text, user_id, name, price::text, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	var price string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := parseDecimal(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, userID string) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY lower(name), id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, userID, id string) (*models.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 AND id::text = $2`, userID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, user_id, name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`,
		p.ID, p.UserID, p.Name, p.Price.String(), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	updated, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products SET name = $3, price = $4::numeric, updated_at = $5
		WHERE user_id = $1 AND id::text = $2
		RETURNING `+productColumns,
		p.UserID, p.ID, p.Name, p.Price.String(), p.UpdatedAt))
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE user_id = $1 AND id::text = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
