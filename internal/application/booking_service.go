package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	repo "github.com/oksasatya/go-table-reservation/internal/domain/repository"
)

var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

var bookingStats = expvar.NewMap("reservation_outcomes")

// Outcome is the business result of a booking attempt.
type Outcome int

const (
	OutcomeCapacityExceeded Outcome = iota
	OutcomeConfirmedWithNotification
	OutcomeConfirmedWithoutNotification
)

func (o Outcome) Confirmed() bool {
	return o == OutcomeConfirmedWithNotification || o == OutcomeConfirmedWithoutNotification
}

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmedWithNotification:
		return "confirmed_with_notification"
	case OutcomeConfirmedWithoutNotification:
		return "confirmed_without_notification"
	default:
		return "capacity_exceeded"
	}
}

// Message is the status text returned to API clients.
func (o Outcome) Message() string {
	switch o {
	case OutcomeConfirmedWithNotification:
		return "Reservation made successfully! A confirmation email has been sent."
	case OutcomeConfirmedWithoutNotification:
		return "Reservation made successfully! The confirmation email could not be sent."
	default:
		return "Sorry, no tables are available on that date."
	}
}

type BookingResult struct {
	Outcome     Outcome
	Date        time.Time
	Reservation *entity.Reservation // nil when capacity was exceeded
}

type Availability struct {
	Date      time.Time
	Capacity  int
	Reserved  int
	Remaining int
}

// BookingService enforces the per-day capacity of the reservation ledger.
type BookingService struct {
	Repo     repo.ReservationRepository
	Notifier Notifier
	Cache    CountCache // optional
	Capacity int
	Logger   *logrus.Logger
}

func NewBookingService(repo repo.ReservationRepository, notifier Notifier, cache CountCache, capacity int, logger *logrus.Logger) *BookingService {
	if notifier == nil {
		notifier = DisabledNotifier{}
	}
	return &BookingService{
		Repo:     repo,
		Notifier: notifier,
		Cache:    cache,
		Capacity: capacity,
		Logger:   logger,
	}
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return entity.Day(t), nil
}

// MakeReservation books one slot for user on dateStr. The count and the insert
// run under the ledger's per-day lock so concurrent bookings cannot exceed
// Capacity. The confirmation email is sent after commit and its failure only
// changes the outcome.
func (s *BookingService) MakeReservation(ctx context.Context, user *entity.User, dateStr string) (*BookingResult, error) {
	day, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	var created *entity.Reservation
	err = s.Repo.LockDate(ctx, day, func(tx repo.ReservationRepository) error {
		n, err := tx.CountForDate(ctx, day)
		if err != nil {
			return err
		}
		if n >= s.Capacity {
			return nil
		}
		created, err = tx.Insert(ctx, user.PhoneNumber, day)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("make reservation: %w", err)
	}

	log := s.logger().WithFields(logrus.Fields{"date": day.Format(entity.DateLayout), "user_id": user.ID})
	if created == nil {
		bookingStats.Add(OutcomeCapacityExceeded.String(), 1)
		log.Info("reservation rejected: capacity exceeded")
		return &BookingResult{Outcome: OutcomeCapacityExceeded, Date: day}, nil
	}

	s.invalidate(ctx, day)

	outcome := OutcomeConfirmedWithNotification
	notice := ReservationNotice{
		ReservationID: created.ID,
		Name:          user.Name,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		Date:          day,
	}
	// the reservation is committed; a client hanging up should not cancel the email
	if err := s.Notifier.NotifyReservation(context.WithoutCancel(ctx), notice); err != nil {
		outcome = OutcomeConfirmedWithoutNotification
		if !errors.Is(err, ErrNotificationDisabled) {
			log.WithError(err).Warn("reservation confirmation email failed")
		}
	}
	bookingStats.Add(outcome.String(), 1)
	log.WithField("reservation_id", created.ID).WithField("outcome", outcome.String()).Info("reservation confirmed")

	return &BookingResult{Outcome: outcome, Date: day, Reservation: created}, nil
}

// Availability reports how many slots remain on dateStr.
func (s *BookingService) Availability(ctx context.Context, dateStr string) (*Availability, error) {
	day, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	n, err := s.countForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	remaining := s.Capacity - n
	if remaining < 0 {
		remaining = 0
	}
	return &Availability{Date: day, Capacity: s.Capacity, Reserved: n, Remaining: remaining}, nil
}

func (s *BookingService) ListReservations(ctx context.Context, user *entity.User) ([]entity.Reservation, error) {
	return s.Repo.ListByPhone(ctx, user.PhoneNumber)
}

// countForDay serves from the cache when it can. A miss is counted and cached
// under the day lock, so a booking that commits after the count always
// invalidates after the cached value was written.
func (s *BookingService) countForDay(ctx context.Context, day time.Time) (int, error) {
	if s.Cache == nil {
		n, err := s.Repo.CountForDate(ctx, day)
		if err != nil {
			return 0, fmt.Errorf("count reservations: %w", err)
		}
		return n, nil
	}

	n, ok, err := s.Cache.Get(ctx, day)
	if err != nil {
		s.logger().WithError(err).Warn("availability cache read failed")
	} else if ok {
		return n, nil
	}

	err = s.Repo.LockDate(ctx, day, func(tx repo.ReservationRepository) error {
		var err error
		if n, err = tx.CountForDate(ctx, day); err != nil {
			return err
		}
		if err := s.Cache.Set(ctx, day, n); err != nil {
			s.logger().WithError(err).Warn("availability cache write failed")
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return n, nil
}

func (s *BookingService) invalidate(ctx context.Context, day time.Time) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, day); err != nil {
		s.logger().WithError(err).Warn("availability cache invalidation failed")
	}
}

func (s *BookingService) logger() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
