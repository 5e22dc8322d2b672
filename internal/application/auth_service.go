package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	repo "github.com/oksasatya/go-table-reservation/internal/domain/repository"
	"github.com/oksasatya/go-table-reservation/pkg/helpers"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies phone/password pairs. It keeps no sessions; every
// request authenticates again.
type AuthService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, Logger: logger}
}

// Authenticate validates phone/password and returns the user. Every failure,
// including storage errors, is reported as ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, phone, password string) (*entity.User, error) {
	if phone == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByPhone(ctx, phone)
	if err != nil || u == nil {
		if err != nil && !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Warn("credential lookup failed")
		}
		helpers.CompareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
