// Package notification adapts the mailer to the booking service's Notifier.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/go-table-reservation/config"
	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/pkg/mailer"
	mailtpl "github.com/oksasatya/go-table-reservation/pkg/mailer/templates"
)

func noticeData(cfg *config.Config, n application.ReservationNotice) map[string]any {
	return mailtpl.NewReservationConfirmedData(cfg, n.Name, n.Email,
		mailtpl.WithDate(n.Date),
		mailtpl.WithPhoneNumber(n.PhoneNumber),
		mailtpl.WithReservationID(n.ReservationID),
	)
}

// DirectNotifier renders the confirmation and sends it synchronously.
type DirectNotifier struct {
	Sender  mailer.Sender
	Cfg     *config.Config
	Timeout time.Duration
}

func NewDirectNotifier(sender mailer.Sender, cfg *config.Config) *DirectNotifier {
	return &DirectNotifier{Sender: sender, Cfg: cfg, Timeout: cfg.MailTimeout}
}

func (d *DirectNotifier) NotifyReservation(ctx context.Context, n application.ReservationNotice) error {
	if n.Email == "" {
		return fmt.Errorf("no email address on file")
	}
	subject, text, html, err := mailtpl.Render(mailtpl.ReservationConfirmed, noticeData(d.Cfg, n))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()
	return d.Sender.Send(ctx, n.Email, subject, text, html)
}

// Publisher is satisfied by *helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands the confirmation to the email worker through RabbitMQ.
// A nil error means the broker confirmed the job, not that it was delivered.
type QueueNotifier struct {
	Pub     Publisher
	Cfg     *config.Config
	Timeout time.Duration
}

func NewQueueNotifier(pub Publisher, cfg *config.Config) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Cfg: cfg, Timeout: cfg.MailTimeout}
}

func (q *QueueNotifier) NotifyReservation(ctx context.Context, n application.ReservationNotice) error {
	if n.Email == "" {
		return fmt.Errorf("no email address on file")
	}
	job := mailer.EmailJob{
		To:       n.Email,
		Template: mailtpl.ReservationConfirmed,
		Data:     noticeData(q.Cfg, n),
	}
	ctx, cancel := context.WithTimeout(ctx, q.Timeout)
	defer cancel()
	if err := q.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("enqueue confirmation email: %w", err)
	}
	return nil
}

var (
	_ application.Notifier = (*DirectNotifier)(nil)
	_ application.Notifier = (*QueueNotifier)(nil)
)
