package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	"github.com/oksasatya/go-table-reservation/internal/domain/repository"
)

// reservationLockClass namespaces the advisory locks taken per reservation day.
const reservationLockClass int32 = 0x52535656

type ReservationRepository struct {
	db querier
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: pool}
}

func (r *ReservationRepository) CountForDate(ctx context.Context, date time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM reservations WHERE reserved_on = $1
	`, entity.Day(date)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return n, nil
}

func (r *ReservationRepository) Insert(ctx context.Context, phone string, date time.Time) (*entity.Reservation, error) {
	res := &entity.Reservation{PhoneNumber: phone}
	err := r.db.QueryRow(ctx, `
		INSERT INTO reservations (phone_number, reserved_on)
		VALUES ($1, $2)
		RETURNING id, reserved_on, created_at
	`, phone, entity.Day(date)).Scan(&res.ID, &res.Date, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	res.Date = entity.Day(res.Date)
	return res, nil
}

func (r *ReservationRepository) ListByPhone(ctx context.Context, phone string) ([]entity.Reservation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, phone_number, reserved_on, created_at
		FROM reservations
		WHERE phone_number = $1
		ORDER BY reserved_on, created_at
	`, phone)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := []entity.Reservation{}
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(&res.ID, &res.PhoneNumber, &res.Date, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Date = entity.Day(res.Date)
		out = append(out, res)
	}
	return out, rows.Err()
}

// LockDate opens a transaction and takes a transaction-scoped advisory lock keyed
// by the day, so concurrent bookings for the same day queue up behind each other
// while other days proceed in parallel.
func (r *ReservationRepository) LockDate(ctx context.Context, date time.Time, fn func(tx repository.ReservationRepository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, reservationLockClass, dayKey(date)); err != nil {
		return fmt.Errorf("lock reservation day: %w", err)
	}
	if err := fn(&ReservationRepository{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// dayKey is the number of days since the Unix epoch.
func dayKey(date time.Time) int32 {
	return int32(entity.Day(date).Unix() / 86400)
}

var (
	_ repository.ReservationRepository = (*ReservationRepository)(nil)
	_ querier                          = pgx.Tx(nil)
)
