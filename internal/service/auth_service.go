package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials rejects a login with a wrong email or password.
// The two cases are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, name string, roles []string) (string, error)
}

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// AuthServiceImpl is the AuthService implementation.
type AuthServiceImpl struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, issuer TokenIssuer) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, issuer: issuer}
}

// Login verifies the password against the stored bcrypt hash and issues a
// token carrying the user's roles.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		slog.Debug("password mismatch", "user_id", user.ID)
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(user.ID, user.Name, user.Roles)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *AuthServiceImpl) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
