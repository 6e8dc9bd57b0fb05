package service

import (
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

var _ i.Authenticator = &Auth{}

// Auth registers users and issues tokens for the maze routes.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
}

// NewAuthService returns an Auth backed by ur and ts.
func NewAuthService(ur i.UserRepo, ts i.Tokenizer) (*Auth, error) {
	if ur == nil || ts == nil {
		return nil, fmt.Errorf("%w: user repo and tokenizer are required", ErrMissingDependency)
	}
	return &Auth{
		userRepo:  ur,
		tokenizer: ts,
	}, nil
}

// Register implements i.Authenticator.
func (a *Auth) Register(username, password string) error {
	user, err := dmn.NewUser(dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return err
	}

	if _, err := a.userRepo.ByUsername(username); err == nil {
		return i.ErrUsernameTaken
	} else if !errors.Is(err, i.ErrUserNotFound) {
		return err
	}

	return a.userRepo.Save(user)
}

// SignIn implements i.Authenticator.
func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if err != nil {
		return nil, "", dmn.ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, "", dmn.ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]any{
		"userID":   user.ID.String(),
		"username": user.Username,
	}, tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
