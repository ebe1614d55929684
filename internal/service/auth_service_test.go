package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pricecast/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type mockIssuer struct {
	issueFunc func(userID int64, name string, roles []string) (string, error)
}

func (m *mockIssuer) Issue(userID int64, name string, roles []string) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(userID, name, roles)
	}
	return "token", nil
}

func userWithPassword(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &model.User{
		ID:           1,
		Email:        "pm@example.com",
		Name:         "PM",
		PasswordHash: string(hash),
		Roles:        []string{"delivery_manager"},
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	user := userWithPassword(t, "correct horse")
	users := &mockUserRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email != "pm@example.com" {
				t.Errorf("email = %q", email)
			}
			return user, nil
		},
	}
	var issuedRoles []string
	issuer := &mockIssuer{
		issueFunc: func(userID int64, name string, roles []string) (string, error) {
			issuedRoles = roles
			return "signed-token", nil
		},
	}
	svc := NewAuthService(users, issuer)

	token, got, err := svc.Login(context.Background(), "pm@example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if token != "signed-token" {
		t.Errorf("token = %q", token)
	}
	if got.ID != 1 {
		t.Errorf("user id = %d, want 1", got.ID)
	}
	if len(issuedRoles) != 1 || issuedRoles[0] != "delivery_manager" {
		t.Errorf("issued roles = %v", issuedRoles)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := userWithPassword(t, "correct horse")
	users := &mockUserRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	svc := NewAuthService(users, &mockIssuer{})

	_, _, err := svc.Login(context.Background(), "pm@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{}, &mockIssuer{})

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}
