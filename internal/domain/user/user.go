package user

import (
	"errors"
	"fmt"
	"time"
)

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is the persisted shape. The password hash has to survive the trip
// through the JSON store, so responses go through Public() instead of
// relying on a json:"-" tag.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
}

type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u User) Public() Public {
	return Public{
		ID:       u.ID,
		Username: u.Username,
		Phone:    u.Phone,
		Email:    u.Email,
		Role:     u.Role,
	}
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrPhoneTaken    = errors.New("phone already registered")
	ErrEmailTaken    = errors.New("email already registered")
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=40"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewID() string {
	return fmt.Sprintf("USER-%d", time.Now().UnixMilli())
}
