// Package auth issues and verifies the bearer tokens that authenticate
// storefront and admin requests.
package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "cake-haven"

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned when a token fails parsing or verification.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == "admin"
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens creates a Tokens helper with the given HMAC secret.
func NewTokens(secret []byte) *Tokens {
	return &Tokens{secret: secret, now: time.Now}
}

// Issue signs a token for the identity, valid for TokenTTL.
func (t *Tokens) Issue(id Identity) (string, error) {
	now := t.now()
	c := claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify parses and validates a token, returning the caller identity.
// Only HS256 is accepted.
func (t *Tokens) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", tok.Method.Alg())
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   c.Role,
	}, nil
}
