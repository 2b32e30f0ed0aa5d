package model

import (
	"errors"
	"net/mail"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"         db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `json:"username"   db:"username"      gorm:"column:username;not null;unique"`
	Email        string    `json:"email"      db:"email"         gorm:"column:email;not null;unique"`
	PasswordHash string    `json:"-"          db:"password_hash" gorm:"column:password_hash;not null"`
	FirstName    string    `json:"first_name" db:"first_name"    gorm:"column:first_name;not null"`
	LastName     string    `json:"last_name"  db:"last_name"     gorm:"column:last_name;not null"`
	Role         UserRole  `json:"role"       db:"role"          gorm:"column:role;not null;default:user"`
	IsActive     bool      `json:"is_active"  db:"is_active"     gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"    gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"    gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RegisterRequest is the input for creating a user account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r RegisterRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.FirstName == "" || r.LastName == "" {
		return errors.New("first and last name are required")
	}
	return nil
}

// UpdateUserRequest carries optional field updates; nil means keep current.
type UpdateUserRequest struct {
	Username  *string   `json:"username"`
	Email     *string   `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Role      *UserRole `json:"role"`
	IsActive  *bool     `json:"is_active"`
}
