package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicatePhone = errors.New("phone number already registered")
)

// UserRepository defines the interface for user-related storage operations.
type UserRepository interface {
	// Create stores u and fills in ID and timestamps. It returns ErrDuplicatePhone
	// when u.PhoneNumber is already registered.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
}
