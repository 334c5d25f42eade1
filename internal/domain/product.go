package domain

import "time"

// Product represents a catalog product with its aggregated images and sizes.
// Image and Sizes are always non-nil: a product without either still carries
// empty lists.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Current     bool      `json:"current"`
	Image       []string  `json:"image"`
	Sizes       []string  `json:"sizes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct carries the fields for product creation. The ID is caller
// supplied (catalog codes like "0001"), images keep their input order as the
// display order, duplicate sizes collapse on insert.
type NewProduct struct {
	ID          string
	Name        string
	Description *string
	Price       float64
	Category    string
	Current     bool
	Image       []string
	Sizes       []string
}

// ProductPatch is the allow-listed partial update for product scalar fields.
// Nil means "leave unchanged". ID, images and sizes are deliberately absent:
// they cannot be modified through the update path.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Current     *bool
}

// IsZero reports whether the patch carries no field at all.
func (p ProductPatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Current == nil
}
