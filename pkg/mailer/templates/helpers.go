package templates

import (
	"time"

	"github.com/oksasatya/go-table-reservation/config"
)

// Option pattern
type Option func(*EmailData)

func WithPhoneNumber(phone string) Option { return func(d *EmailData) { d.PhoneNumber = phone } }
func WithReservationID(id string) Option { return func(d *EmailData) { d.ReservationID = id } }

func WithDate(t time.Time) Option {
	return func(d *EmailData) {
		d.Date = t.Format("2006-01-02")
		d.DateText = t.Format("Monday, 02 January 2006")
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		RestaurantName:    cfg.RestaurantName,
		RestaurantAddress: cfg.RestaurantAddress,
		AppName:           cfg.AppName,
		SupportURL:        cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewReservationConfirmedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ReservationConfirmed, name, email, opts...)
	return ToMap(d)
}
