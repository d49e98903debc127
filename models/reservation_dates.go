package models

import "time"

const DateLayout = "2006-01-02"

// ReservationDates is the stay's date range, embedded into reservations.
type ReservationDates struct {
	CheckIn              *time.Time `gorm:"column:check_in;type:date" json:"checkIn,omitempty"`
	CheckOut             *time.Time `gorm:"column:check_out;type:date" json:"checkOut,omitempty"`
	LateCheckout         bool       `gorm:"column:late_checkout;default:false" json:"lateCheckout"`
	EstimatedCheckInTime string     `gorm:"column:estimated_check_in_time;size:5" json:"estimatedCheckInTime,omitempty"`
}

// NewReservationDates parses YYYY-MM-DD dates.
func NewReservationDates(checkIn, checkOut string, lateCheckout bool) (ReservationDates, error) {
	ci, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return ReservationDates{}, ErrInvalidDates
	}
	co, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return ReservationDates{}, ErrInvalidDates
	}
	d := ReservationDates{CheckIn: &ci, CheckOut: &co, LateCheckout: lateCheckout}
	if err := d.Validate(); err != nil {
		return ReservationDates{}, err
	}
	return d, nil
}

func (d ReservationDates) Validate() error {
	if d.CheckIn == nil || d.CheckOut == nil {
		return ErrInvalidDates
	}
	if !dateOnly(*d.CheckOut).After(dateOnly(*d.CheckIn)) {
		return ErrInvalidDates
	}
	return nil
}

// TotalNights counts whole nights between check-in and check-out.
func (d ReservationDates) TotalNights() int64 {
	if d.CheckIn == nil || d.CheckOut == nil {
		return 0
	}
	in, out := dateOnly(*d.CheckIn), dateOnly(*d.CheckOut)
	if !out.After(in) {
		return 0
	}
	return int64(out.Sub(in).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
