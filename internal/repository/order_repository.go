package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"way2rare/internal/database"
	"way2rare/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.NewOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderNumber produces a human-readable order number of the form
// ORD-{unix-millis}-{9 uppercase alphanumerics}. Collisions are not checked;
// the UNIQUE constraint on orders.order_number is the only backstop.
func generateOrderNumber() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

const orderColumns = `
	SELECT id, user_id, order_number, subtotal, delivery_fee, total, status,
	       shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country,
	       created_at, updated_at
	FROM orders
`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.Status,
		&order.ShippingAddress.Street,
		&order.ShippingAddress.City,
		&order.ShippingAddress.State,
		&order.ShippingAddress.Zip,
		&order.ShippingAddress.Country,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrderItem(row pgx.Row) (domain.OrderItem, error) {
	var (
		item     domain.OrderItem
		size     *string
		imageURL *string
	)
	err := row.Scan(
		&item.ProductID,
		&item.Name,
		&item.Price,
		&item.Quantity,
		&size,
		&imageURL,
	)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if size != nil {
		item.Size = *size
	}
	item.Image = []string{}
	if imageURL != nil {
		item.Image = []string{*imageURL}
	}
	return item, nil
}

func listOrderItems(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, product_name, product_price, quantity, size, image_url
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// Create inserts the order header and a denormalized snapshot row per item in
// one transaction. Only the first image URL of each item is captured. If any
// item insert fails, the header rolls back with it and nothing persists.
func (r *orderRepository) Create(ctx context.Context, order *domain.NewOrder) (*domain.Order, error) {
	var created *domain.Order

	err := database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		header, err := scanOrder(tx.QueryRow(ctx, `
			INSERT INTO orders (
				user_id, order_number, subtotal, delivery_fee, total, status,
				shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, user_id, order_number, subtotal, delivery_fee, total, status,
			          shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country,
			          created_at, updated_at
		`,
			order.UserID,
			generateOrderNumber(),
			order.Subtotal,
			order.DeliveryFee,
			order.Total,
			order.Status,
			order.ShippingAddress.Street,
			order.ShippingAddress.City,
			order.ShippingAddress.State,
			order.ShippingAddress.Zip,
			order.ShippingAddress.Country,
		))
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := []domain.OrderItem{}
		for _, line := range order.Items {
			var imageURL *string
			if len(line.Image) > 0 {
				imageURL = &line.Image[0]
			}

			item, err := scanOrderItem(tx.QueryRow(ctx, `
				INSERT INTO order_items (
					order_id, product_id, product_name, product_price, quantity, size, image_url
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING product_id, product_name, product_price, quantity, size, image_url
			`,
				header.ID,
				line.ProductID,
				line.Name,
				line.Price,
				line.Quantity,
				line.Size,
				imageURL,
			))
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, item)
		}

		header.Items = items
		created = header
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// FindByID fetches an order with its items. An absent header returns
// ErrOrderNotFound without querying items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, orderColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := listOrderItems(ctx, r.pool, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListByUser fetches every order of a user, newest first, each with its
// items. Items are loaded per order; order volumes per user stay small enough
// that batching is not worth the complexity here.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, orderColumns+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := listOrderItems(ctx, r.pool, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// UpdateStatus sets the status column unconditionally and refreshes
// updated_at. Status values are a convention, not a validated enumeration.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
