package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"movie-catalog-backend/internal/auth"
	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/store"
)

// UserService registers accounts and signs users in.
type UserService struct {
	users  store.UserStore
	tokens auth.TokenManager
	log    zerolog.Logger
}

// NewUserService creates the account service.
func NewUserService(users store.UserStore, tokens auth.TokenManager, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("component", "users").Logger(),
	}
}

// Register creates an account. Emails are unique.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, newError(ErrConflict, "user email already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: strings.TrimSpace(name), Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("account created")
	return user, nil
}

// Authenticate checks the credentials and returns a signed token. Unknown
// emails and wrong passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", newError(ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", newError(ErrUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}
