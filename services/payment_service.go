package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hotel-reservation/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentInput struct {
	Amount     decimal.Decimal
	Method     string
	CardNumber string
	CardHolder string
}

// PaymentResult is the outcome of one attempt. Reservation is only set when
// the attempt was approved.
type PaymentResult struct {
	Payment     models.Payment      `json:"payment"`
	Reservation *models.Reservation `json:"reservation,omitempty"`
}

type PaymentService struct {
	DB        *gorm.DB
	Quotes    *QuoteCache
	Publisher EventPublisher
	now       func() time.Time
}

func NewPaymentService(db *gorm.DB, quotes *QuoteCache, publisher EventPublisher) *PaymentService {
	return &PaymentService{DB: db, Quotes: quotes, Publisher: publisher, now: time.Now}
}

// Attempt records a payment attempt. The attempt is approved when the amount
// matches the taxed total to the cent and the card number passes a checksum.
// On approval the reservation's creation time is stamped, the quote is
// frozen as the bill and a reservation.paid event is published after commit. Declined attempts are
// persisted too and are not returned as errors.
func (s *PaymentService) Attempt(ctx context.Context, publicID uuid.UUID, in PaymentInput) (*PaymentResult, error) {
	var (
		result PaymentResult
		event  *ReservationPaidEvent
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadReservation(tx, publicID, true)
		if err != nil {
			return err
		}
		if r.IsPaid() {
			return ErrAlreadyPaid
		}
		if err := readyForPayment(r); err != nil {
			return err
		}

		total := r.TotalCostIncludingTax().Round(2)
		p := models.Payment{
			ReservationID: r.ID,
			Amount:        in.Amount.Round(2),
			Method:        strings.TrimSpace(in.Method),
			CardLast4:     last4(in.CardNumber),
			Reference:     uuid.NewString(),
			AttemptedAt:   s.now(),
		}
		if p.Method == "" {
			p.Method = "card"
		}

		switch {
		case !p.Amount.Equal(total):
			p.Status = models.PaymentDeclined
			p.Message = fmt.Sprintf("amount %s does not match total %s", p.Amount.StringFixed(2), total.StringFixed(2))
		case !luhnValid(in.CardNumber):
			p.Status = models.PaymentDeclined
			p.Message = "card number rejected"
		default:
			p.Status = models.PaymentApproved
			p.Message = "approved"
		}

		details, _ := json.Marshal(map[string]any{
			"card_holder": strings.TrimSpace(in.CardHolder),
			"total":       total.StringFixed(2),
			"nights":      r.Dates.TotalNights(),
			"pricing":     r.ExtraPricingType(),
		})
		p.Details = datatypes.JSON(details)

		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		r.AddAttemptedPayment(p)
		result.Payment = p

		if !p.Approved() {
			log.Printf("payment %s declined for reservation %s: %s", p.Reference, publicID, p.Message)
			return nil
		}

		r.SetCreatedTimeNow()
		if err := r.FreezeQuote(); err != nil {
			return err
		}
		if err := tx.Model(r).Updates(map[string]any{
			"created_time": r.CreatedTime,
			"paid_quote":   r.PaidQuote,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark reservation paid: %w", err)
		}
		result.Reservation = r
		ev := paidEvent(r, p)
		event = &ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Quotes.Invalidate(ctx, publicID)
	if event != nil {
		log.Printf("payment %s approved for reservation %s", result.Payment.Reference, publicID)
		if s.Publisher != nil {
			if err := s.Publisher.PublishReservationPaid(ctx, *event); err != nil {
				log.Printf("reservation.paid publish failed for %s: %v", publicID, err)
			}
		}
	}
	return &result, nil
}

// Payments lists every attempt made against a reservation, oldest first.
func (s *PaymentService) Payments(ctx context.Context, publicID uuid.UUID) ([]models.Payment, error) {
	var r models.Reservation
	if err := s.DB.WithContext(ctx).Select("id").Where("public_id = ?", publicID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	var payments []models.Payment
	if err := s.DB.WithContext(ctx).Where("reservation_id = ?", r.ID).Order("id ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func readyForPayment(r *models.Reservation) error {
	switch {
	case r.Room == nil:
		return fmt.Errorf("%w: no room assigned", ErrReservationIncomplete)
	case r.Dates.TotalNights() <= 0:
		return fmt.Errorf("%w: no nights booked", ErrReservationIncomplete)
	case !r.HasAtLeastOneAdultGuest():
		return fmt.Errorf("%w: at least one adult guest is required", ErrReservationIncomplete)
	}
	return nil
}

func paidEvent(r *models.Reservation, p models.Payment) ReservationPaidEvent {
	ev := ReservationPaidEvent{
		ReservationID:         r.PublicID.String(),
		Nights:                r.Dates.TotalNights(),
		Guests:                len(r.Guests),
		TotalCostIncludingTax: r.TotalCostIncludingTax().StringFixed(2),
		PaymentReference:      p.Reference,
	}
	if r.Room != nil {
		ev.RoomNumber = r.Room.RoomNumber
		ev.RoomType = string(r.Room.RoomType)
	}
	if r.Dates.CheckIn != nil {
		ev.CheckIn = r.Dates.CheckIn.Format(models.DateLayout)
	}
	if r.Dates.CheckOut != nil {
		ev.CheckOut = r.Dates.CheckOut.Format(models.DateLayout)
	}
	if r.CreatedTime != nil {
		ev.PaidAt = r.CreatedTime.UTC().Format(time.RFC3339)
	}
	return ev
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func last4(card string) string {
	d := digitsOnly(card)
	if len(d) < 4 {
		return d
	}
	return d[len(d)-4:]
}

func luhnValid(card string) bool {
	d := digitsOnly(card)
	if len(d) < 12 || len(d) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(d) - 1; i >= 0; i-- {
		n := int(d[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
