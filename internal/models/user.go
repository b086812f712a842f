package models

import (
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	Date         time.Time          `bson:"date" json:"date"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Msg: "Name is required", Param: "name"})
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{Msg: "Please enter a password with 6 or more characters", Param: "password"})
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Msg: "Password is required", Param: "password"})
	}
	return errs
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
}
