package application

import (
	"context"
	"errors"
	"time"
)

var ErrNotificationDisabled = errors.New("notifications disabled")

// ReservationNotice is what a confirmation email is rendered from.
type ReservationNotice struct {
	ReservationID string
	Name          string
	Email         string
	PhoneNumber   string
	Date          time.Time
}

// Notifier delivers booking confirmations. Implementations bound their own
// network calls with a timeout.
type Notifier interface {
	NotifyReservation(ctx context.Context, n ReservationNotice) error
}

// DisabledNotifier is used when MAIL_SEND_ENABLED=false.
type DisabledNotifier struct{}

func (DisabledNotifier) NotifyReservation(context.Context, ReservationNotice) error {
	return ErrNotificationDisabled
}

// CountCache caches per-day reservation counts for availability reads.
type CountCache interface {
	Get(ctx context.Context, day time.Time) (count int, ok bool, err error)
	Set(ctx context.Context, day time.Time, count int) error
	Invalidate(ctx context.Context, day time.Time) error
}
