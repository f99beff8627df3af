package forms

import (
	"strings"

	"greendash/backend/services/dashboard/internal/models"
)

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	return check(in).err()
}

// RegisterInput is the sign-up form. Role defaults to USER.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"role"`
}

func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Role) == "" {
		in.Role = string(models.RoleUser)
	}
	return check(in).err()
}

// User converts a validated input.
func (in RegisterInput) User() models.User {
	role, _ := models.ParseRole(in.Role)
	return models.User{Name: in.Name, Email: in.Email, Password: in.Password, Role: role}
}

// ProfileInput edits the current account. An empty password keeps the current one.
type ProfileInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (in *ProfileInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return check(in).err()
}

// User merges the edit into current.
func (in ProfileInput) User(current models.User) models.User {
	current.Name = in.Name
	current.Email = in.Email
	current.Password = in.Password
	return current
}
