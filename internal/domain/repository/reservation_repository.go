package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
)

// ReservationRepository is the reservation ledger.
// Dates are calendar days; implementations ignore the time of day.
type ReservationRepository interface {
	CountForDate(ctx context.Context, date time.Time) (int, error)
	// Insert appends a reservation unconditionally. Capacity is the caller's concern.
	Insert(ctx context.Context, phone string, date time.Time) (*entity.Reservation, error)
	ListByPhone(ctx context.Context, phone string) ([]entity.Reservation, error)
	// LockDate runs fn while holding an exclusive lock on date. Only one LockDate
	// call per date runs at a time; writes made through the repository passed to
	// fn are kept only if fn returns nil.
	LockDate(ctx context.Context, date time.Time, fn func(tx ReservationRepository) error) error
}
