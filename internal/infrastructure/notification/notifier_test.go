package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/go-table-reservation/config"
	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/pkg/mailer"
	mailtpl "github.com/oksasatya/go-table-reservation/pkg/mailer/templates"
)

var notice = application.ReservationNotice{
	ReservationID: "res-1",
	Name:          "Ann",
	Email:         "ann@example.com",
	PhoneNumber:   "5550001",
	Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
}

func testConfig() *config.Config {
	return &config.Config{RestaurantName: "Chez Go", MailTimeout: 50 * time.Millisecond}
}

type recordingSender struct {
	to, subject, text string
	deadline          bool
	err               error
}

func (s *recordingSender) Send(ctx context.Context, to, subject, text, html string) error {
	s.to, s.subject, s.text = to, subject, text
	_, s.deadline = ctx.Deadline()
	return s.err
}

// blockingSender waits until the context gives up.
type blockingSender struct{}

func (blockingSender) Send(ctx context.Context, _, _, _, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDirectNotifierSendsRenderedEmail(t *testing.T) {
	sender := &recordingSender{}
	n := NewDirectNotifier(sender, testConfig())

	if err := n.NotifyReservation(context.Background(), notice); err != nil {
		t.Fatalf("NotifyReservation failed: %v", err)
	}
	if sender.to != "ann@example.com" {
		t.Errorf("expected recipient ann@example.com, got %q", sender.to)
	}
	if !strings.Contains(sender.subject, "Chez Go") || !strings.Contains(sender.text, "Hello Ann") || !strings.Contains(sender.text, "2024") {
		t.Errorf("unexpected email: %q / %q", sender.subject, sender.text)
	}
	if !sender.deadline {
		t.Error("expected the send to be bounded by a deadline")
	}
}

func TestDirectNotifierTimesOut(t *testing.T) {
	n := NewDirectNotifier(blockingSender{}, testConfig())

	start := time.Now()
	err := n.NotifyReservation(context.Background(), notice)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("notifier did not honour its timeout")
	}
}

func TestDirectNotifierPropagatesFailure(t *testing.T) {
	sendErr := errors.New("rejected")
	n := NewDirectNotifier(&recordingSender{err: sendErr}, testConfig())
	if err := n.NotifyReservation(context.Background(), notice); !errors.Is(err, sendErr) {
		t.Errorf("expected send error, got %v", err)
	}

	missing := notice
	missing.Email = ""
	if err := n.NotifyReservation(context.Background(), missing); err == nil {
		t.Error("expected error for a user without email")
	}
}

type fakePublisher struct {
	err  error
	jobs []any
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return p.err
}

func TestQueueNotifierPublishesJob(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub, testConfig())

	if err := n.NotifyReservation(context.Background(), notice); err != nil {
		t.Fatalf("NotifyReservation failed: %v", err)
	}
	if len(pub.jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(pub.jobs))
	}
	job, ok := pub.jobs[0].(mailer.EmailJob)
	if !ok {
		t.Fatalf("expected mailer.EmailJob, got %T", pub.jobs[0])
	}
	if job.To != "ann@example.com" || job.Template != mailtpl.ReservationConfirmed {
		t.Errorf("unexpected job %+v", job)
	}
	if job.Data["Date"] != "2024-03-01" || job.Data["ReservationID"] != "res-1" {
		t.Errorf("unexpected job data %v", job.Data)
	}
}

func TestQueueNotifierPropagatesFailure(t *testing.T) {
	pubErr := errors.New("channel closed")
	n := NewQueueNotifier(&fakePublisher{err: pubErr}, testConfig())
	if err := n.NotifyReservation(context.Background(), notice); !errors.Is(err, pubErr) {
		t.Errorf("expected publish error, got %v", err)
	}
}
