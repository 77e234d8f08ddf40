package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/RohitKonga/cake-haven/internal/domain/auth"
	"github.com/RohitKonga/cake-haven/internal/domain/user"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Addresses []string  `json:"addresses"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func toUserView(u *user.User) userView {
	addresses := u.Addresses
	if addresses == nil {
		addresses = []string{}
	}
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Addresses: addresses,
		CreatedAt: u.CreatedAt,
	}
}

// Signup registers a new account and returns a signed session token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 || !strings.Contains(req.Email, "@") || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "name, valid email, and a password of at least 6 characters are required")
		return
	}

	u, err := h.users.Signup(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, u)
}

// Login verifies credentials and returns a signed session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, u)
}

// Me returns the authenticated caller's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	u, err := h.users.Get(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

// SaveAddresses replaces the caller's saved delivery addresses.
func (h *Handler) SaveAddresses(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req struct {
		Addresses []string `json:"addresses"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.SaveAddresses(r.Context(), id.UserID, req.Addresses)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

// ListUsers returns every account for the admin console.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]userView, len(users))
	for i := range users {
		out[i] = toUserView(&users[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, status int, u *user.User) {
	token, err := h.tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, status, sessionView{Token: token, User: toUserView(u)})
}
