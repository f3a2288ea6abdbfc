package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleResident = "resident"
	RoleWorker   = "worker"
)

// User represents an account profile. UserID is the stable external
// identity reference; lookups across the app key on it, not on the row ID.
type User struct {
	Model
	UserID         string `json:"userId" gorm:"uniqueIndex;not null"`
	Name           string `json:"name" binding:"required,min=2"`
	Email          string `json:"email" gorm:"unique;not null" binding:"required,email"`
	Role           string `json:"role" gorm:"not null"`
	RewardPoints   int    `json:"rewardPoints" gorm:"not null;default:0"`
	Password       string `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string `json:"-"`
	ExpoPushToken  string `json:"-"`
}

// IsWorker reports whether the account can be assigned collection tasks.
func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

// VerifyPassword compares the supplied password with the stored hash.
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// Blacklist holds access tokens invalidated by logout.
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"type:varchar(512);index"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2" conform:"trim"`
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=resident worker"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type UserResponse struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RewardPoints int    `json:"rewardPoints"`
}

type PushTokenRequest struct {
	ExpoPushToken string `json:"expo_push_token" binding:"required"`
}

// NewUserResponse strips credentials off a profile for API output.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		UserID:       u.UserID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		RewardPoints: u.RewardPoints,
	}
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

// ConformInput trims and normalizes tagged string fields in place.
func ConformInput(data interface{}) error {
	return conform.Strings(data)
}

// TranslateError flattens validator errors into user readable messages.
func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}
