package service

import (
	"context"

	"way2rare/internal/domain"
	"way2rare/internal/repository"

	"github.com/google/uuid"
)

// OrderService defines the interface for order business logic
type OrderService interface {
	Create(ctx context.Context, order *domain.NewOrder) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// Create fills in the documented defaults (delivery fee 10.0, status pending,
// country USA) and creates the order atomically with its item snapshots.
func (s *orderService) Create(ctx context.Context, order *domain.NewOrder) (*domain.Order, error) {
	if order.DeliveryFee == 0 {
		order.DeliveryFee = domain.DefaultDeliveryFee
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.ShippingAddress.Country == "" {
		order.ShippingAddress.Country = "USA"
	}
	return s.orderRepo.Create(ctx, order)
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// UpdateStatus sets the new status and returns the order in the same nested
// shape as Get.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orderRepo.FindByID(ctx, id)
}
