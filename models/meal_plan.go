package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ChildDiscountPercent is taken off a child's food extras.
var ChildDiscountPercent = decimal.RequireFromString("0.60")

// MealPlan is one guest's food extras and dietary requirements for a stay.
type MealPlan struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ReservationID uint `gorm:"index;not null" json:"reservationId"`

	GuestID uint  `gorm:"index" json:"guestId"`
	Guest   Guest `gorm:"foreignKey:GuestID" json:"guest"`

	FoodExtras       []Extra                     `gorm:"many2many:meal_plan_food_extras;" json:"foodExtras"`
	DietRequirements datatypes.JSONSlice[string] `json:"dietRequirements"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that only food extras are on the plan.
func (m MealPlan) Validate() error {
	if !allInCategory(m.FoodExtras, ExtraCategoryFood) {
		return ErrInvalidExtraCategory
	}
	return nil
}

func (m MealPlan) HasFoodExtras() bool {
	return len(m.FoodExtras) > 0
}

func (m MealPlan) HasDietRequirements() bool {
	return len(m.DietRequirements) > 0
}

// TotalCost is the food extras cost for the stay. Children get
// ChildDiscountPercent off.
func (m MealPlan) TotalCost(nights int64) decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.FoodExtras {
		total = total.Add(e.TotalPrice(nights))
	}
	if m.Guest.Child {
		total = total.Mul(decimal.NewFromInt(1).Sub(ChildDiscountPercent))
	}
	return total
}
