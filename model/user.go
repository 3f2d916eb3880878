package model

import (
	"time"

	"github.com/muhammadheryan/artisanhub/constant"
)

// UserEntity represents the users table entity
type UserEntity struct {
	ID           uint64        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	Phone        string        `db:"phone" json:"phone"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         constant.Role `db:"role" json:"role"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time    `db:"updated_at" json:"updated_at,omitempty"`
}

// Public strips credentials and contact data for responses.
func (u *UserEntity) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// UserFilter for querying users
type UserFilter struct {
	ID    uint64
	Email string
	Phone string
}

// PublicUser is the profile returned to clients. It never carries phone or password hash.
type PublicUser struct {
	ID    uint64        `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  constant.Role `json:"role"`
}

// RegisterRequest for user registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"required,notblank,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,role"`
}

// LoginRequest for user login (accepts email or phone)
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required,notblank"`
	Password     string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type RegisterResponse struct {
	ID    uint64        `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  constant.Role `json:"role"`
}

type DashboardResponse struct {
	Role constant.Role `json:"role"`
	Path string        `json:"path"`
	User *PublicUser   `json:"user,omitempty"`
}
