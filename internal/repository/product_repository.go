package repository

import (
	"context"
	"errors"
	"fmt"

	"way2rare/internal/database"
	"way2rare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this id already exists")
	ErrNoFieldsToUpdate     = errors.New("no updatable fields provided")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.NewProduct) error
	Update(ctx context.Context, id string, patch domain.ProductPatch) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

// productColumns selects each product together with its aggregated image and
// size lists. The lateral aggregates COALESCE to empty arrays so products
// without images or sizes still yield empty lists instead of dropped rows.
const productColumns = `
	SELECT p.id, p.name, p.description, p.price, p.category, p.current,
	       p.created_at, p.updated_at,
	       COALESCE(img.urls, '{}') AS image,
	       COALESCE(sz.sizes, '{}') AS sizes
	FROM products p
	LEFT JOIN LATERAL (
		SELECT array_agg(pi.image_url ORDER BY pi.display_order) AS urls
		FROM product_images pi
		WHERE pi.product_id = p.id
	) img ON TRUE
	LEFT JOIN LATERAL (
		SELECT array_agg(DISTINCT ps.size) AS sizes
		FROM product_sizes ps
		WHERE ps.product_id = p.id
	) sz ON TRUE
`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.Current,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Image,
		&product.Sizes,
	)
	if err != nil {
		return nil, err
	}
	if product.Image == nil {
		product.Image = []string{}
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}
	return product, nil
}

// List retrieves every product, newest first, with image and size lists.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := productColumns + ` ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product with its image and size lists.
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := productColumns + ` WHERE p.id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Create inserts the product row, its images in input order, and its sizes in
// one transaction. A duplicate product id fails the whole creation; duplicate
// sizes within the input collapse silently.
func (r *productRepository) Create(ctx context.Context, product *domain.NewProduct) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (id, name, description, price, category, current)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			product.ID,
			product.Name,
			product.Description,
			product.Price,
			product.Category,
			product.Current,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrProductAlreadyExists
			}
			return fmt.Errorf("failed to create product: %w", err)
		}

		// Input position is the display order.
		for i, imageURL := range product.Image {
			_, err := tx.Exec(ctx, `
				INSERT INTO product_images (product_id, image_url, display_order)
				VALUES ($1, $2, $3)
			`, product.ID, imageURL, i)
			if err != nil {
				return fmt.Errorf("failed to create product image: %w", err)
			}
		}

		for _, size := range product.Sizes {
			_, err := tx.Exec(ctx, `
				INSERT INTO product_sizes (product_id, size)
				VALUES ($1, $2)
				ON CONFLICT (product_id, size) DO NOTHING
			`, product.ID, size)
			if err != nil {
				return fmt.Errorf("failed to create product size: %w", err)
			}
		}

		return nil
	})
}

// Update applies the allow-listed patch to product scalar columns and
// refreshes updated_at. Returns ErrNoFieldsToUpdate for an empty patch and
// ErrProductNotFound when no row matches.
func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) error {
	var set assignments
	addIfSet(&set, "name", patch.Name)
	addIfSet(&set, "description", patch.Description)
	addIfSet(&set, "price", patch.Price)
	addIfSet(&set, "category", patch.Category)
	addIfSet(&set, "current", patch.Current)

	if set.empty() {
		return ErrNoFieldsToUpdate
	}

	query := fmt.Sprintf(`
		UPDATE products
		SET %s, updated_at = CURRENT_TIMESTAMP
		WHERE id = $%d
	`, set.setClause(), set.next())

	tag, err := r.pool.Exec(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
