package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) SetAddresses(_ context.Context, id string, addresses []string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Addresses = addresses
	return u, nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]User, error) { return nil, nil }

// newTestService uses the minimum bcrypt cost to keep tests fast.
func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.cost = bcrypt.MinCost
	return s
}

func TestSignup_CreatesUserRole(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	u, err := svc.Signup(context.Background(), "Alice", "Alice@Example.COM", "hunter22")

	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEqual(t, "hunter22", u.PasswordHash)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	// Same address in different case still collides.
	_, err = svc.Signup(context.Background(), "Mallory", "ALICE@example.com", "password")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	created, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	u, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(newMockUserRepo())

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSaveAddresses_DropsBlanks(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo)

	created, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	u, err := svc.SaveAddresses(context.Background(), created.ID, []string{
		" 1 Main Street ",
		"",
		"   ",
		"2 Oak Avenue",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1 Main Street", "2 Oak Avenue"}, u.Addresses)
}
