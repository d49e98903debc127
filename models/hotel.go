package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hotel holds the property details and the fee charged when a guest in a
// non-premium room checks out late.
type Hotel struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:255" json:"name"`
	Address         string          `gorm:"type:text" json:"address"`
	Phone           string          `gorm:"size:50" json:"phone"`
	Email           string          `gorm:"size:150" json:"email"`
	Website         string          `gorm:"size:255" json:"website"`
	LateCheckoutFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"lateCheckoutFee"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
