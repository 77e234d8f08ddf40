package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when signing up with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned on login failure. It deliberately
	// does not distinguish a missing account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a storefront account. Addresses holds the saved delivery
// addresses, most recently used first.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Addresses    []string
	CreatedAt    time.Time
}

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetAddresses(ctx context.Context, id string, addresses []string) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
}
