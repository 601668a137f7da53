package dto

import (
	"time"

	"leadhub/internal/feature/auth/domain/entity"
)

// UserRes is the public view of a user. The password hash is never included.
type UserRes struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthRes is returned by register and login.
type AuthRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// NewUserRes converts a user entity into its response form.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
