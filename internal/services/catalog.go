package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

type CatalogService struct {
	products ProductRepository
	now      clock
}

func NewCatalogService(products ProductRepository) *CatalogService {
	return &CatalogService{products: products, now: time.Now}
}

func (s *CatalogService) List(ctx context.Context, userID string) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx, userID)
	if err != nil {
		slog.Error("Failed to list products", "user_id", userID, "error", err)
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) Create(ctx context.Context, userID string, in models.ProductInput) (*models.Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &models.Product{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		slog.Error("Failed to create product", "user_id", userID, "error", err)
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, userID, id string, in models.ProductInput) (*models.Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.products.UpdateProduct(ctx, &models.Product{
		ID:        id,
		UserID:    userID,
		Name:      in.Name,
		Price:     in.Price,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to update product", "user_id", userID, "product_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, userID, id string) error {
	if err := s.products.DeleteProduct(ctx, userID, id); err != nil {
		slog.Error("Failed to delete product", "user_id", userID, "product_id", id, "error", err)
		return err
	}
	return nil
}
