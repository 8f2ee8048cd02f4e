package user

import "github.com/google/uuid"

type User struct {
	ID        uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt string    `json:"createdAt,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}
