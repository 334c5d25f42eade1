package service

import (
	"context"
	"fmt"

	"way2rare/internal/domain"
	"way2rare/internal/repository"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.NewProduct) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create inserts the product and returns it in the aggregated shape, images
// and sizes included.
func (s *productService) Create(ctx context.Context, product *domain.NewProduct) (*domain.Product, error) {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(ctx, product.ID)
}

// Update applies the patch and returns the full aggregated product.
func (s *productService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := s.productRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(ctx, id)
}
