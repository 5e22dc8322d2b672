package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	"github.com/oksasatya/go-table-reservation/internal/domain/repository"
)

type ReservationRepository struct {
	mu           sync.RWMutex
	reservations []entity.Reservation

	locksMu sync.Mutex
	locks   map[time.Time]*sync.Mutex
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{locks: make(map[time.Time]*sync.Mutex)}
}

func (r *ReservationRepository) CountForDate(_ context.Context, date time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countLocked(entity.Day(date)), nil
}

func (r *ReservationRepository) countLocked(day time.Time) int {
	n := 0
	for _, res := range r.reservations {
		if res.Date.Equal(day) {
			n++
		}
	}
	return n
}

func (r *ReservationRepository) Insert(_ context.Context, phone string, date time.Time) (*entity.Reservation, error) {
	res := newReservation(phone, date)
	r.mu.Lock()
	r.reservations = append(r.reservations, res)
	r.mu.Unlock()
	return &res, nil
}

func (r *ReservationRepository) ListByPhone(_ context.Context, phone string) ([]entity.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Reservation{}
	for _, res := range r.reservations {
		if res.PhoneNumber == phone {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *ReservationRepository) LockDate(ctx context.Context, date time.Time, fn func(tx repository.ReservationRepository) error) error {
	day := entity.Day(date)

	r.locksMu.Lock()
	l, ok := r.locks[day]
	if !ok {
		l = &sync.Mutex{}
		r.locks[day] = l
	}
	r.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &reservationTx{parent: r}
	if err := fn(tx); err != nil {
		return err
	}
	r.mu.Lock()
	r.reservations = append(r.reservations, tx.pending...)
	r.mu.Unlock()
	return nil
}

func newReservation(phone string, date time.Time) entity.Reservation {
	return entity.Reservation{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		Date:        entity.Day(date),
		CreatedAt:   time.Now().UTC(),
	}
}

// reservationTx buffers inserts until LockDate's callback succeeds.
type reservationTx struct {
	parent  *ReservationRepository
	pending []entity.Reservation
}

func (t *reservationTx) CountForDate(ctx context.Context, date time.Time) (int, error) {
	n, err := t.parent.CountForDate(ctx, date)
	if err != nil {
		return 0, err
	}
	day := entity.Day(date)
	for _, res := range t.pending {
		if res.Date.Equal(day) {
			n++
		}
	}
	return n, nil
}

func (t *reservationTx) Insert(_ context.Context, phone string, date time.Time) (*entity.Reservation, error) {
	res := newReservation(phone, date)
	t.pending = append(t.pending, res)
	return &res, nil
}

func (t *reservationTx) ListByPhone(ctx context.Context, phone string) ([]entity.Reservation, error) {
	out, err := t.parent.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	for _, res := range t.pending {
		if res.PhoneNumber == phone {
			out = append(out, res)
		}
	}
	return out, nil
}

// LockDate inside a transaction behaves like a savepoint: writes made by fn are
// dropped if it fails and otherwise commit with the outer callback.
func (t *reservationTx) LockDate(_ context.Context, _ time.Time, fn func(tx repository.ReservationRepository) error) error {
	mark := len(t.pending)
	if err := fn(t); err != nil {
		t.pending = t.pending[:mark]
		return err
	}
	return nil
}

var (
	_ repository.ReservationRepository = (*ReservationRepository)(nil)
	_ repository.ReservationRepository = (*reservationTx)(nil)
)
