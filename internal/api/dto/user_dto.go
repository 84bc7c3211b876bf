package dto

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdateRequest payload for partial updates. Omitted fields stay unchanged.
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyTokenRequest payload for token verification.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token     string     `json:"token"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// VerifyTokenResponse is returned by token verification.
type VerifyTokenResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// UserResponse is the public view of a user; the password hash is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, NewUserResponse(&users[i]))
	}
	return resp
}

// NewAuthResponse maps an issued token.
func NewAuthResponse(t *domain.Token) AuthResponse {
	resp := AuthResponse{Token: t.Value, IssuedAt: t.IssuedAt}
	if t.HasExpiry() {
		exp := t.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}
