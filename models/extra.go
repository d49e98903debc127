package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExtraType is the pricing tier of an extra.
type ExtraType string

const (
	ExtraTypeBasic   ExtraType = "Basic"
	ExtraTypePremium ExtraType = "Premium"
)

// ExtraCategory separates general add-ons from food items on meal plans.
type ExtraCategory string

const (
	ExtraCategoryGeneral ExtraCategory = "General"
	ExtraCategoryFood    ExtraCategory = "Food"
)

// Extra is a chargeable add-on priced per night.
type Extra struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Type        ExtraType       `gorm:"type:varchar(20);not null;index" json:"type"`
	Category    ExtraCategory   `gorm:"type:varchar(20);not null;index" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TotalPrice is the price of the extra across the given number of nights.
func (e Extra) TotalPrice(nights int64) decimal.Decimal {
	if nights <= 0 {
		return decimal.Zero
	}
	return e.Price.Mul(decimal.NewFromInt(nights))
}

func ParseExtraType(raw string) (ExtraType, bool) {
	switch {
	case strings.EqualFold(raw, string(ExtraTypeBasic)):
		return ExtraTypeBasic, true
	case strings.EqualFold(raw, string(ExtraTypePremium)):
		return ExtraTypePremium, true
	}
	return "", false
}

func ParseExtraCategory(raw string) (ExtraCategory, bool) {
	switch {
	case strings.EqualFold(raw, string(ExtraCategoryGeneral)):
		return ExtraCategoryGeneral, true
	case strings.EqualFold(raw, string(ExtraCategoryFood)):
		return ExtraCategoryFood, true
	}
	return "", false
}

// allInCategory reports whether every extra belongs to category.
func allInCategory(extras []Extra, category ExtraCategory) bool {
	for _, e := range extras {
		if e.Category != category {
			return false
		}
	}
	return true
}
