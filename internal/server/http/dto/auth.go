package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Code is the secondary numeric credential. Clients send it either as a
// JSON number or as a string; validation happens in the use case.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("code must be a number or a string: %w", err)
	}
	*c = Code(n.String())
	return nil
}

// LoginRequest describes POST /login payload.
type LoginRequest struct {
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	SecondaryCode Code   `json:"secondaryCode"`
	// Codigo is accepted for older dashboard builds.
	Codigo Code `json:"codigo"`
}

// EffectiveCode returns whichever code field was sent.
func (r LoginRequest) EffectiveCode() string {
	if r.SecondaryCode != "" {
		return string(r.SecondaryCode)
	}
	return string(r.Codigo)
}

// RegisterRequest describes POST /register payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Codigo    Code   `json:"codigo"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Username  string `json:"username"`
	Phone     string `json:"telefono"`
}

// RecoveryRequest describes POST /password-recovery payload.
type RecoveryRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetRequest describes POST /password-reset payload.
type ResetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse is the public view of a staff account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Codigo   int    `json:"codigo"`
	Nombre   string `json:"nombre,omitempty"`
	Apellido string `json:"apellido,omitempty"`
	Username string `json:"username,omitempty"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterResponse is returned with 201.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SessionResponse answers GET /session/validate.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          UserResponse `json:"user"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of failed requests that carry one.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromUser converts a staff account.
func FromUser(u model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Codigo:   u.SecondaryCode,
		Nombre:   u.FirstName,
		Apellido: u.LastName,
		Username: u.Username,
	}
}

// UserSummary is one row of GET /users. Credentials are never included.
type UserSummary struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	Username  string    `json:"username"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromUsers converts a page of staff accounts.
func FromUsers(users []model.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:        u.ID,
			Email:     u.Email,
			Nombre:    u.FirstName,
			Apellido:  u.LastName,
			Username:  u.Username,
			Telefono:  u.Phone,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}

// FromPrincipal converts a session principal.
func FromPrincipal(p model.Principal) UserResponse {
	return UserResponse{ID: p.UserID, Email: p.Email, Codigo: p.SecondaryCode}
}
