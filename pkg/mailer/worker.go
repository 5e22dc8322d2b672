package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	mailtpl "github.com/oksasatya/go-table-reservation/pkg/mailer/templates"
)

// Disposition tells the queue consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	Requeue
	Drop
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Process renders and sends one queued EmailJob. Malformed jobs are dropped;
// a failed send is requeued once and dropped on redelivery.
func Process(ctx context.Context, sender Sender, body []byte, redelivered bool) (Disposition, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Drop, fmt.Errorf("bad message: %w", err)
	}
	if job.To == "" {
		return Drop, fmt.Errorf("bad message: empty recipient")
	}
	job.Normalize()

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return Drop, fmt.Errorf("render %s: %w", job.Template, err)
		}
		subject, text, html = s, t, h
	}

	if err := sender.Send(ctx, job.To, subject, text, html); err != nil {
		if redelivered {
			return Drop, fmt.Errorf("send failed after redelivery: %w", err)
		}
		return Requeue, fmt.Errorf("send failed: %w", err)
	}
	return Ack, nil
}
