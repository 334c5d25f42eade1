package service

import (
	"context"

	"way2rare/internal/domain"
	"way2rare/internal/repository"
)

// UserService defines the interface for user business logic
type UserService interface {
	Get(ctx context.Context, ident domain.UserIdentifier) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.NewUser) (*domain.User, error)
	Update(ctx context.Context, ident domain.UserIdentifier, patch domain.UserPatch) (*domain.User, error)
	AddAddress(ctx context.Context, ident domain.UserIdentifier, address *domain.NewAddress) (*domain.Address, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, ident domain.UserIdentifier) (*domain.User, error) {
	return s.userRepo.FindByIdentifier(ctx, ident)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

func (s *userService) Create(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	return s.userRepo.Create(ctx, user)
}

// Update applies the patch and returns the user with addresses, resolved
// through the same identifier.
func (s *userService) Update(ctx context.Context, ident domain.UserIdentifier, patch domain.UserPatch) (*domain.User, error) {
	if err := s.userRepo.Update(ctx, ident, patch); err != nil {
		return nil, err
	}
	return s.userRepo.FindByIdentifier(ctx, ident)
}

// AddAddress fills in the country default before handing off to the
// repository.
func (s *userService) AddAddress(ctx context.Context, ident domain.UserIdentifier, address *domain.NewAddress) (*domain.Address, error) {
	if address.Country == "" {
		address.Country = "USA"
	}
	return s.userRepo.AddAddress(ctx, ident, address)
}
