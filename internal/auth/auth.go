// Package auth implements credential registration and verification on top
// of the identity store. Password hashing uses bcrypt and always happens
// here, outside any storage lock.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tinyapp-web/tinyapp/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, email, passwordHash string) (string, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
}

// ErrInvalidInput is returned when registration is attempted with an empty
// email or password. No further format validation is applied.
var ErrInvalidInput = errors.New("email and password must not be empty")

// ErrEmailNotFound and ErrWrongPassword are deliberately distinct so the
// login handler can show the original's two different messages.
var (
	ErrEmailNotFound = errors.New("email is incorrect")
	ErrWrongPassword = errors.New("wrong password")
)

// Auth performs registration and login against the identity store.
type Auth struct {
	db userKeeper
}

func New(db userKeeper) *Auth {
	return &Auth{db: db}
}

// Register validates the credentials, hashes the password and creates the
// user. Returns ErrInvalidInput on a missing field and models.ErrEmailTaken
// when the email is already registered (case-sensitive exact match).
func (a *Auth) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return a.db.CreateUser(ctx, email, string(passwordHash))
}

// Login verifies the credentials and returns the user id on success.
// An unknown email yields ErrEmailNotFound; a hash mismatch yields
// ErrWrongPassword.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	usr, found, err := a.db.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrEmailNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}

	return usr.ID, nil
}
