package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

type fakeAuthRepo struct {
	users map[string]*models.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: make(map[string]*models.User)}
}

func (r *fakeAuthRepo) CreateUser(user *models.User) error {
	user.ID = int64(len(r.users) + 1)
	r.users[user.Username] = user
	return nil
}

func (r *fakeAuthRepo) GetUserByUsername(username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *fakeAuthRepo) CountUsers() (int, error) {
	return len(r.users), nil
}

func TestRegisterAdmin_SingleAccountBootstrap(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, zap.NewNop())

	user, err := svc.RegisterAdmin("admin", "s3cret")
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	if _, err := svc.RegisterAdmin("second", "pw"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("second registration err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, zap.NewNop())
	if _, err := svc.RegisterAdmin("admin", "s3cret"); err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}

	token, expiry, err := svc.Login("admin", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if expiry.IsZero() {
		t.Error("expiry not set")
	}

	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return GetJWTSecret(), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, zap.NewNop())
	svc.RegisterAdmin("admin", "s3cret")

	if _, _, err := svc.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("ghost", "s3cret"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user err = %v, want ErrUserNotFound", err)
	}
}
