package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	repo "github.com/oksasatya/go-table-reservation/internal/domain/repository"
	"github.com/oksasatya/go-table-reservation/pkg/helpers"
)

// Storage limits: bcrypt reads at most 72 bytes, the users table caps the
// text columns in characters.
const (
	maxPasswordBytes = 72
	maxPhoneChars    = 32
	maxEmailChars    = 255
	maxNameChars     = 255
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrFieldTooLong   = errors.New("field too long")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = repo.ErrDuplicatePhone
)

// UserService is the credential store's application facade.
type UserService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Logger: logger}
}

type RegisterInput struct {
	PhoneNumber string
	Password    string
	Email       string
	Name        string
}

// Register creates a user. The password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	fields := []struct{ name, value string }{
		{"telephone", in.PhoneNumber},
		{"password", in.Password},
		{"email", in.Email},
		{"name", in.Name},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password exceeds %d bytes", ErrFieldTooLong, maxPasswordBytes)
	}
	limits := []struct {
		name, value string
		max         int
	}{
		{"telephone", in.PhoneNumber, maxPhoneChars},
		{"email", in.Email, maxEmailChars},
		{"name", in.Name, maxNameChars},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return nil, fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, l.name, l.max)
		}
	}

	if _, err := s.Repo.GetByPhone(ctx, in.PhoneNumber); err == nil {
		return nil, ErrDuplicatePhone
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup phone: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		Email:        in.Email,
		Name:         in.Name,
	}
	// the unique constraint still catches a concurrent registration of the same phone
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	u, err := s.Repo.GetByPhone(ctx, phone)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
