package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"way2rare/internal/domain"

	"github.com/google/uuid"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{9}$`)

func testShippingAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Street:  "100 Commerce St",
		City:    "Austin",
		State:   "TX",
		Zip:     "78701",
		Country: "USA",
	}
}

func TestOrderCreateSnapshotsItems(t *testing.T) {
	ctx := context.Background()
	orderRepo := NewOrderRepository(testPool)
	productRepo := NewProductRepository(testPool)

	user := createTestUser(t, "order-snap@way2rare.test", nil)

	err := productRepo.Create(ctx, &domain.NewProduct{
		ID:       "prod-order-1",
		Name:     "Graphic Tee",
		Price:    25.0,
		Category: "shirts",
		Current:  true,
		Image:    []string{"/img/graphic.png", "/img/graphic-back.png"},
		Sizes:    []string{"M", "L"},
	})
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	order, err := orderRepo.Create(ctx, &domain.NewOrder{
		UserID: user.ID,
		Items: []domain.NewOrderItem{
			{ProductID: "prod-order-1", Name: "Graphic Tee", Price: 25.0, Quantity: 2, Size: "M", Image: []string{"/img/graphic.png", "/img/graphic-back.png"}},
			{ProductID: "prod-order-1", Name: "Graphic Tee", Price: 25.0, Quantity: 1, Size: "L"},
		},
		Subtotal:        75.0,
		DeliveryFee:     10.0,
		Total:           85.0,
		Status:          domain.OrderStatusPending,
		ShippingAddress: testShippingAddress(),
	})
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if !orderNumberPattern.MatchString(order.OrderNumber) {
		t.Errorf("order number %q does not match expected format", order.OrderNumber)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	// Only the first image URL is snapshotted.
	if len(order.Items[0].Image) != 1 || order.Items[0].Image[0] != "/img/graphic.png" {
		t.Errorf("unexpected item image snapshot: %v", order.Items[0].Image)
	}
	if len(order.Items[1].Image) != 0 {
		t.Errorf("expected empty image list for item without images, got %v", order.Items[1].Image)
	}

	// A later product edit must not bleed into the stored snapshot.
	err = productRepo.Update(ctx, "prod-order-1", domain.ProductPatch{
		Name:  strPtr("Renamed Tee"),
		Price: floatPtr(99.0),
	})
	if err != nil {
		t.Fatalf("failed to update product: %v", err)
	}

	reloaded, err := orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	for _, item := range reloaded.Items {
		if item.Name != "Graphic Tee" {
			t.Errorf("snapshot name changed: %q", item.Name)
		}
		if item.Price != 25.0 {
			t.Errorf("snapshot price changed: %v", item.Price)
		}
	}
	if reloaded.Subtotal != 75.0 || reloaded.Total != 85.0 {
		t.Errorf("order totals changed: subtotal=%v total=%v", reloaded.Subtotal, reloaded.Total)
	}
}

func TestOrderCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	orderRepo := NewOrderRepository(testPool)

	user := createTestUser(t, "order-atomic@way2rare.test", nil)

	// The second item violates the quantity check, so the whole order must
	// roll back, header included.
	_, err := orderRepo.Create(ctx, &domain.NewOrder{
		UserID: user.ID,
		Items: []domain.NewOrderItem{
			{ProductID: "prod-x", Name: "Valid Item", Price: 10.0, Quantity: 1},
			{ProductID: "prod-y", Name: "Broken Item", Price: 10.0, Quantity: 0},
		},
		Subtotal:        10.0,
		DeliveryFee:     10.0,
		Total:           20.0,
		Status:          domain.OrderStatusPending,
		ShippingAddress: testShippingAddress(),
	})
	if err == nil {
		t.Fatal("expected order creation to fail on invalid quantity")
	}

	orders, err := orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no persisted orders after rollback, got %d", len(orders))
	}
}

func TestOrderListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	orderRepo := NewOrderRepository(testPool)

	user := createTestUser(t, "order-list@way2rare.test", nil)

	var createdIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		order, err := orderRepo.Create(ctx, &domain.NewOrder{
			UserID: user.ID,
			Items: []domain.NewOrderItem{
				{ProductID: "prod-list", Name: "Item", Price: 5.0, Quantity: i + 1},
			},
			Subtotal:        5.0 * float64(i+1),
			DeliveryFee:     10.0,
			Total:           5.0*float64(i+1) + 10.0,
			Status:          domain.OrderStatusPending,
			ShippingAddress: testShippingAddress(),
		})
		if err != nil {
			t.Fatalf("failed to create order %d: %v", i, err)
		}
		createdIDs = append(createdIDs, order.ID)
	}

	orders, err := orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}

	// Newest first: reverse of creation order.
	for i := 0; i < 3; i++ {
		if orders[i].ID != createdIDs[2-i] {
			t.Errorf("orders[%d] = %s, want %s", i, orders[i].ID, createdIDs[2-i])
		}
	}

	// Every order carries its items.
	for _, order := range orders {
		if len(order.Items) != 1 {
			t.Errorf("order %s missing items", order.OrderNumber)
		}
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	ctx := context.Background()
	orderRepo := NewOrderRepository(testPool)

	user := createTestUser(t, "order-status@way2rare.test", nil)

	order, err := orderRepo.Create(ctx, &domain.NewOrder{
		UserID: user.ID,
		Items: []domain.NewOrderItem{
			{ProductID: "prod-status", Name: "Item", Price: 20.0, Quantity: 1},
		},
		Subtotal:        20.0,
		DeliveryFee:     10.0,
		Total:           30.0,
		Status:          domain.OrderStatusPending,
		ShippingAddress: testShippingAddress(),
	})
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if err := orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	reloaded, err := orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	if reloaded.Status != domain.OrderStatusShipped {
		t.Errorf("status = %q, want %q", reloaded.Status, domain.OrderStatusShipped)
	}
	if !reloaded.UpdatedAt.After(order.UpdatedAt) {
		t.Errorf("updated_at not refreshed: %v -> %v", order.UpdatedAt, reloaded.UpdatedAt)
	}
}

func TestOrderUpdateStatusMissingOrder(t *testing.T) {
	orderRepo := NewOrderRepository(testPool)

	err := orderRepo.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatusShipped)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderFindByIDMissing(t *testing.T) {
	orderRepo := NewOrderRepository(testPool)

	_, err := orderRepo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
