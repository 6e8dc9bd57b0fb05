package i

import (
	"errors"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(user *dmn.User) error

	// ByID retrieves a user by their unique ID.
	// Returns an error wrapping ErrUserNotFound if the user does not exist.
	ByID(id uuid.UUID) (*dmn.User, error)

	// ByUsername retrieves a user by their username.
	// Returns an error wrapping ErrUserNotFound if the user does not exist.
	ByUsername(username string) (*dmn.User, error)
}
