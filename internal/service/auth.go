package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/Dan9191/bank-ledger/internal/utils"
	"github.com/google/uuid"
)

// RegisterInput carries the fields of a registration request
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a new user with hashed password and returns a token for it
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.AuthPayload, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, fail(KindDuplicate, MsgEmailInUse)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("register", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, s.internal("register", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(KindDuplicate, MsgEmailInUse)
		}
		return nil, s.internal("register", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, s.internal("register", err)
	}

	s.log.Infof("User registered: %s", user.Email)
	return &models.AuthPayload{Token: token, User: user}, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(KindInvalidCredentials, MsgInvalidCredentials)
	}
	if err != nil {
		return nil, s.internal("login", err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, fail(KindInvalidCredentials, MsgInvalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, s.internal("login", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return &models.AuthPayload{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to an existing user
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: MsgInvalidToken, Err: err}
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(KindUnauthorized, MsgUserNotFound)
	}
	if err != nil {
		return nil, s.internal("authenticate", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
