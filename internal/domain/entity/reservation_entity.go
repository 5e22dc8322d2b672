package entity

import "time"

// DateLayout is the wire format of a reservation day.
const DateLayout = "2006-01-02"

// Reservation is one booked slot on a calendar day.
// PhoneNumber references a user's phone but is not a foreign key.
type Reservation struct {
	ID          string
	PhoneNumber string
	Date        time.Time // midnight UTC
	CreatedAt   time.Time
}

// DateString formats the reservation day as YYYY-MM-DD.
func (r Reservation) DateString() string {
	return r.Date.Format(DateLayout)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
