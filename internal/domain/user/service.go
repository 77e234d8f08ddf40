package user

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service encapsulates account signup, login, and profile maintenance.
type Service struct {
	users Repository
	cost  int
}

// NewService creates a user Service. The bcrypt default cost is used for
// password hashing.
func NewService(users Repository) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

// Signup registers a new account with the user role. The email is
// normalized to lower case and must be unused.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check existing email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return u, nil
}

// Login verifies credentials and returns the account. Both unknown email
// and wrong password produce ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// SaveAddresses replaces the account's saved delivery addresses. Blank
// entries are dropped.
func (s *Service) SaveAddresses(ctx context.Context, id string, addresses []string) (*User, error) {
	cleaned := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	return s.users.SetAddresses(ctx, id, cleaned)
}

// ListAll returns every account, newest first.
func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	return s.users.ListAll(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
