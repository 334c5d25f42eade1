package service

import (
	"context"
	"testing"

	"way2rare/internal/domain"
	"way2rare/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepository struct {
	users       map[uuid.UUID]*domain.User
	lastAddress *domain.NewAddress
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) find(ident domain.UserIdentifier) (*domain.User, bool) {
	if id, ok := ident.Primary(); ok {
		user, found := m.users[id]
		return user, found
	}
	for _, user := range m.users {
		if user.CognitoUserID != nil && *user.CognitoUserID == ident.External() {
			return user, true
		}
	}
	return nil, false
}

func (m *mockUserRepository) FindByIdentifier(ctx context.Context, ident domain.UserIdentifier) (*domain.User, error) {
	user, ok := m.find(ident)
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	created := &domain.User{
		ID:            uuid.New(),
		CognitoUserID: user.CognitoUserID,
		Email:         user.Email,
		Name:          user.Name,
		Phone:         user.Phone,
		Addresses:     []domain.Address{},
	}
	m.users[created.ID] = created
	return created, nil
}

func (m *mockUserRepository) Update(ctx context.Context, ident domain.UserIdentifier, patch domain.UserPatch) error {
	user, ok := m.find(ident)
	if !ok {
		return repository.ErrUserNotFound
	}
	if patch.Name != nil {
		user.Name = patch.Name
	}
	if patch.Phone != nil {
		user.Phone = patch.Phone
	}
	return nil
}

func (m *mockUserRepository) AddAddress(ctx context.Context, ident domain.UserIdentifier, address *domain.NewAddress) (*domain.Address, error) {
	user, ok := m.find(ident)
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	m.lastAddress = address

	created := domain.Address{
		ID:        uuid.New(),
		UserID:    user.ID,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		Zip:       address.Zip,
		Country:   address.Country,
		IsDefault: address.IsDefault,
	}
	user.Addresses = append(user.Addresses, created)
	return &created, nil
}

func TestUserServiceAddAddressDefaultsCountry(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo)

	user, err := svc.Create(context.Background(), &domain.NewUser{Email: "addr@way2rare.test"})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	addr, err := svc.AddAddress(context.Background(), domain.PrimaryUserID(user.ID), &domain.NewAddress{
		Street: "1 Main St", City: "Austin", State: "TX", Zip: "78701",
	})
	if err != nil {
		t.Fatalf("failed to add address: %v", err)
	}

	if repo.lastAddress.Country != "USA" {
		t.Errorf("country default not applied: %q", repo.lastAddress.Country)
	}
	if addr.Country != "USA" {
		t.Errorf("returned address country = %q", addr.Country)
	}
}

func TestUserServiceAddAddressKeepsExplicitCountry(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo)

	user, err := svc.Create(context.Background(), &domain.NewUser{Email: "intl@way2rare.test"})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err = svc.AddAddress(context.Background(), domain.PrimaryUserID(user.ID), &domain.NewAddress{
		Street: "10 Downing St", City: "London", State: "LDN", Zip: "SW1A 2AA", Country: "UK",
	})
	if err != nil {
		t.Fatalf("failed to add address: %v", err)
	}

	if repo.lastAddress.Country != "UK" {
		t.Errorf("explicit country overwritten: %q", repo.lastAddress.Country)
	}
}

func TestUserServiceUpdateReturnsFreshUser(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo)

	user, err := svc.Create(context.Background(), &domain.NewUser{Email: "fresh@way2rare.test"})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	name := "Updated Name"
	updated, err := svc.Update(context.Background(), domain.PrimaryUserID(user.ID), domain.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	if updated.Name == nil || *updated.Name != "Updated Name" {
		t.Errorf("returned user not refreshed: %v", updated.Name)
	}
}
