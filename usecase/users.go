package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

type UserService struct {
	Repo *repository.UserRepo
}

var ErrEmailTaken = errors.New("email already registered")

// CreateUser registers a new account. The password arrives in plain text and
// is stored only as an argon2id hash.
func (svc *UserService) CreateUser(ctx context.Context, email, displayName, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	existing, err := svc.Repo.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:      utils.GenerateUserID(),
		Email:       email,
		DisplayName: displayName,
		Password:    hashed,
		CreatedAt:   time.Now(),
	}

	if _, err := svc.Repo.AddUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the matching user.
func (svc *UserService) Authenticate(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := svc.Repo.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		return nil, errors.New("invalid credentials")
	}
	return user, nil
}
