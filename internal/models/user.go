package models

import "time"

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Role      string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// AuthSession is the locally persisted login state: a user snapshot plus the
// bearer token attached to authenticated requests.
type AuthSession struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	LoggedAt  time.Time `json:"loggedAt"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Email     string `json:"email"    validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"nombre"   validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Phone     string `json:"telefono"`
}

// ViewedProduct is a recently-viewed history entry, most recent first.
type ViewedProduct struct {
	Product  Product   `json:"product"`
	ViewedAt time.Time `json:"viewedAt"`
}
