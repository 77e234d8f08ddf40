package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohitKonga/cake-haven/internal/domain/user"
)

const userColumns = `id, name, email, password_hash, role, addresses, created_at`

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user account.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users
		(id, name, email, password_hash, role, addresses)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Addresses,
	)
	if err != nil {
		return fmt.Errorf("creating user %q: %w", u.ID, err)
	}
	return nil
}

// GetByID returns a single user by its identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail returns a single user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *UserRepository) getOne(ctx context.Context, column, value string) (*user.User, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value)
	if err != nil {
		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}
	return &u, nil
}

// SetAddresses replaces the user's saved delivery addresses.
func (r *UserRepository) SetAddresses(ctx context.Context, id string, addresses []string) (*user.User, error) {
	rows, err := r.pool.Query(ctx,
		"UPDATE users SET addresses = $2 WHERE id = $1 RETURNING "+userColumns,
		id, addresses)
	if err != nil {
		return nil, fmt.Errorf("setting addresses for user %q: %w", id, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("setting addresses for user %q: %w", id, err)
	}
	return &u, nil
}

// ListAll returns every user, newest first.
func (r *UserRepository) ListAll(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Addresses, &u.CreatedAt)
	return u, err
}
