package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a shop customer. CognitoUserID is the identity provider's
// subject, stored alongside the surrogate id as an alternate lookup key.
type User struct {
	ID            uuid.UUID `json:"id"`
	CognitoUserID *string   `json:"cognito_user_id"`
	Email         string    `json:"email"`
	Name          *string   `json:"name"`
	Phone         *string   `json:"phone"`
	Addresses     []Address `json:"addresses"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Address is a user's shipping address. At most one address per user is the
// default at any time.
type Address struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"-"`
}

// NewUser carries the fields for user creation. Email is the only required
// field.
type NewUser struct {
	CognitoUserID *string
	Email         string
	Name          *string
	Phone         *string
}

// NewAddress carries the fields for adding a shipping address.
type NewAddress struct {
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	IsDefault bool
}

// UserPatch is the allow-listed partial update for user scalar fields.
// Addresses are managed through AddAddress, never through a patch.
type UserPatch struct {
	CognitoUserID *string
	Email         *string
	Name          *string
	Phone         *string
}

// IsZero reports whether the patch carries no field at all.
func (p UserPatch) IsZero() bool {
	return p.CognitoUserID == nil && p.Email == nil && p.Name == nil && p.Phone == nil
}

// UserIdentifier is either the internal user id or the identity provider's
// subject. The shape is decided once, when the raw string arrives at the
// boundary; exactly one lookup path runs per call.
type UserIdentifier struct {
	id       uuid.UUID
	external string
}

// ParseUserIdentifier classifies a raw identifier: a string that parses as a
// UUID targets the primary key, anything else targets cognito_user_id.
func ParseUserIdentifier(raw string) UserIdentifier {
	if id, err := uuid.Parse(raw); err == nil {
		return UserIdentifier{id: id}
	}
	return UserIdentifier{external: raw}
}

// PrimaryUserID builds an identifier for a known internal id.
func PrimaryUserID(id uuid.UUID) UserIdentifier {
	return UserIdentifier{id: id}
}

// Primary returns the internal id and whether this identifier carries one.
func (u UserIdentifier) Primary() (uuid.UUID, bool) {
	return u.id, u.external == ""
}

// External returns the identity provider subject. Only meaningful when
// Primary reports false.
func (u UserIdentifier) External() string {
	return u.external
}

func (u UserIdentifier) String() string {
	if u.external != "" {
		return u.external
	}
	return u.id.String()
}
