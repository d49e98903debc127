package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentDeclined PaymentStatus = "DECLINED"
)

// Payment is one attempt to pay for a reservation. Declined attempts are
// kept for investigations.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReservationID uint            `gorm:"index;not null" json:"reservationId"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        string          `gorm:"size:50" json:"method"`
	CardLast4     string          `gorm:"size:4" json:"cardLast4,omitempty"`
	Reference     string          `gorm:"size:64;index" json:"reference"`
	Status        PaymentStatus   `gorm:"size:20;index" json:"status"`
	Message       string          `gorm:"size:255" json:"message,omitempty"`
	Details       datatypes.JSON  `json:"details,omitempty"`
	AttemptedAt   time.Time       `json:"attemptedAt"`
}

func (p Payment) Approved() bool {
	return p.Status == PaymentApproved
}
