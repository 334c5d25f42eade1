package repository

import (
	"context"
	"errors"
	"fmt"

	"way2rare/internal/database"
	"way2rare/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	FindByIdentifier(ctx context.Context, ident domain.UserIdentifier) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.NewUser) (*domain.User, error)
	Update(ctx context.Context, ident domain.UserIdentifier, patch domain.UserPatch) error
	AddAddress(ctx context.Context, ident domain.UserIdentifier, address *domain.NewAddress) (*domain.Address, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
	SELECT id, cognito_user_id, email, name, phone, created_at, updated_at
	FROM users
`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.CognitoUserID,
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByIdentifier retrieves a user by internal id or identity provider
// subject, depending on the identifier's shape, together with the user's
// addresses ordered default first, then oldest first.
func (r *userRepository) FindByIdentifier(ctx context.Context, ident domain.UserIdentifier) (*domain.User, error) {
	var row pgx.Row
	if id, ok := ident.Primary(); ok {
		row = r.pool.QueryRow(ctx, userColumns+` WHERE id = $1`, id)
	} else {
		row = r.pool.QueryRow(ctx, userColumns+` WHERE cognito_user_id = $1`, ident.External())
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	addresses, err := r.listAddresses(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Addresses = addresses

	return user, nil
}

// FindByEmail retrieves a user by email. Addresses are not loaded on this
// path.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, userColumns+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) listAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, street, city, state, zip, country, is_default, created_at
		FROM user_addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		var addr domain.Address
		err := rows.Scan(
			&addr.ID,
			&addr.UserID,
			&addr.Street,
			&addr.City,
			&addr.State,
			&addr.Zip,
			&addr.Country,
			&addr.IsDefault,
			&addr.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, addr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// Create inserts a new user and returns the generated row.
func (r *userRepository) Create(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (cognito_user_id, email, name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, cognito_user_id, email, name, phone, created_at, updated_at
	`,
		user.CognitoUserID,
		user.Email,
		user.Name,
		user.Phone,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created.Addresses = []domain.Address{}
	return created, nil
}

// Update applies the allow-listed patch to user scalar columns and refreshes
// updated_at. The WHERE clause targets the primary key or the
// cognito_user_id column depending on the identifier's shape.
func (r *userRepository) Update(ctx context.Context, ident domain.UserIdentifier, patch domain.UserPatch) error {
	var set assignments
	addIfSet(&set, "cognito_user_id", patch.CognitoUserID)
	addIfSet(&set, "email", patch.Email)
	addIfSet(&set, "name", patch.Name)
	addIfSet(&set, "phone", patch.Phone)

	if set.empty() {
		return ErrNoFieldsToUpdate
	}

	keyColumn := "cognito_user_id"
	var key any = ident.External()
	if id, ok := ident.Primary(); ok {
		keyColumn = "id"
		key = id
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = CURRENT_TIMESTAMP
		WHERE %s = $%d
	`, set.setClause(), keyColumn, set.next())

	tag, err := r.pool.Exec(ctx, query, append(set.args, key)...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// AddAddress inserts a shipping address for the user. When the new address is
// the default, every other address of that user loses its default flag inside
// the same transaction, keeping at most one default per user.
func (r *userRepository) AddAddress(ctx context.Context, ident domain.UserIdentifier, address *domain.NewAddress) (*domain.Address, error) {
	var created domain.Address

	err := database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		userID, err := resolveUserID(ctx, tx, ident)
		if err != nil {
			return err
		}

		if address.IsDefault {
			_, err := tx.Exec(ctx, `
				UPDATE user_addresses
				SET is_default = FALSE
				WHERE user_id = $1
			`, userID)
			if err != nil {
				return fmt.Errorf("failed to clear default addresses: %w", err)
			}
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO user_addresses (user_id, street, city, state, zip, country, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, user_id, street, city, state, zip, country, is_default, created_at
		`,
			userID,
			address.Street,
			address.City,
			address.State,
			address.Zip,
			address.Country,
			address.IsDefault,
		).Scan(
			&created.ID,
			&created.UserID,
			&created.Street,
			&created.City,
			&created.State,
			&created.Zip,
			&created.Country,
			&created.IsDefault,
			&created.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// resolveUserID maps an identifier to the internal user id. The primary shape
// resolves without a query; the external shape looks up the owning user and
// fails with ErrUserNotFound when no user carries that subject.
func resolveUserID(ctx context.Context, q querier, ident domain.UserIdentifier) (uuid.UUID, error) {
	if id, ok := ident.Primary(); ok {
		return id, nil
	}

	var id uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE cognito_user_id = $1`, ident.External()).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user id: %w", err)
	}

	return id, nil
}
