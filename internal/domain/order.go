package domain

import (
	"time"

	"github.com/google/uuid"
)

// Canonical order statuses. These are a convention, not a database-enforced
// enumeration: UpdateStatus accepts any string.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// DefaultDeliveryFee applies when an order is created without an explicit fee.
const DefaultDeliveryFee = 10.0

// Order is an order header with its snapshotted line items and the shipping
// address flattened onto the order row.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	OrderNumber     string          `json:"order_number"`
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee"`
	Total           float64         `json:"total"`
	Status          string          `json:"status"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a product at order time. Later edits
// to the product never change it.
type OrderItem struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size"`
	Image     []string `json:"image"`
}

// ShippingAddress is the flat address captured on the order row.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// NewOrder carries the fields for order creation. Zero-valued DeliveryFee,
// Status and ShippingAddress.Country get their documented defaults at the
// service layer.
type NewOrder struct {
	UserID          uuid.UUID
	Items           []NewOrderItem
	Subtotal        float64
	DeliveryFee     float64
	Total           float64
	Status          string
	ShippingAddress ShippingAddress
}

// NewOrderItem is an order line as submitted by the storefront. Only the
// first image URL is snapshotted onto the item row.
type NewOrderItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	Size      string
	Image     []string
}
