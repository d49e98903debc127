package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TaxRate is applied to the reservation subtotal.
var TaxRate = decimal.RequireFromString("0.10")

// Quote breaks a reservation's bill down for invoices.
type Quote struct {
	Nights                      int64           `json:"nights"`
	PricingType                 ExtraType       `json:"pricingType"`
	RoomCost                    decimal.Decimal `json:"roomCost"`
	LateCheckoutFee             decimal.Decimal `json:"lateCheckoutFee"`
	RoomCostWithLateCheckoutFee decimal.Decimal `json:"roomCostWithLateCheckoutFee"`
	GeneralExtrasCost           decimal.Decimal `json:"generalExtrasCost"`
	MealPlansCost               decimal.Decimal `json:"mealPlansCost"`
	TotalCostExcludingTax       decimal.Decimal `json:"totalCostExcludingTax"`
	TaxRate                     decimal.Decimal `json:"taxRate"`
	TaxableAmount               decimal.Decimal `json:"taxableAmount"`
	TotalCostIncludingTax       decimal.Decimal `json:"totalCostIncludingTax"`
}

// ExtraPricingType picks the extras tier from the room type. Without a room
// the basic tier applies.
func (r *Reservation) ExtraPricingType() ExtraType {
	if r.Room == nil {
		return ExtraTypeBasic
	}
	return r.Room.RoomType.PricingType()
}

// LateCheckoutFee is what a late checkout would cost in this room. Premium
// rooms check out late for free. Use ChargeableLateCheckoutFee for the
// amount actually billed.
func (r *Reservation) LateCheckoutFee() decimal.Decimal {
	if r.Room == nil || r.Room.RoomType.IsPremium() || r.Room.Hotel == nil {
		return decimal.Zero
	}
	return r.Room.Hotel.LateCheckoutFee
}

// ChargeableLateCheckoutFee is the late checkout fee when the guest asked for
// it on a stay of at least one night.
func (r *Reservation) ChargeableLateCheckoutFee() decimal.Decimal {
	if !r.Dates.LateCheckout || r.Dates.TotalNights() == 0 {
		return decimal.Zero
	}
	return r.LateCheckoutFee()
}

// TotalRoomCost is nights × cost per night, without the late fee.
func (r *Reservation) TotalRoomCost() decimal.Decimal {
	nights := r.Dates.TotalNights()
	if nights == 0 || r.Room == nil {
		return decimal.Zero
	}
	return r.Room.CostPerNight.Mul(decimal.NewFromInt(nights))
}

func (r *Reservation) TotalRoomCostWithLateCheckoutFee() decimal.Decimal {
	return r.TotalRoomCost().Add(r.ChargeableLateCheckoutFee())
}

func (r *Reservation) TotalGeneralExtrasCost() decimal.Decimal {
	nights := r.Dates.TotalNights()
	total := decimal.Zero
	for _, e := range r.GeneralExtras {
		total = total.Add(e.TotalPrice(nights))
	}
	return total
}

func (r *Reservation) TotalMealPlansCost() decimal.Decimal {
	nights := r.Dates.TotalNights()
	total := decimal.Zero
	for _, m := range r.MealPlans {
		total = total.Add(m.TotalCost(nights))
	}
	return total
}

func (r *Reservation) TotalCostExcludingTax() decimal.Decimal {
	return r.TotalRoomCostWithLateCheckoutFee().
		Add(r.TotalGeneralExtrasCost()).
		Add(r.TotalMealPlansCost())
}

// TaxableAmount is the tax on the subtotal, e.g. 10% of $100 = $10.
func (r *Reservation) TaxableAmount() decimal.Decimal {
	return r.TotalCostExcludingTax().Mul(TaxRate)
}

func (r *Reservation) TotalCostIncludingTax() decimal.Decimal {
	return r.TotalCostExcludingTax().Add(r.TaxableAmount())
}

func (r *Reservation) Quote() Quote {
	subtotal := r.TotalCostExcludingTax()
	tax := subtotal.Mul(TaxRate)
	return Quote{
		Nights:                      r.Dates.TotalNights(),
		PricingType:                 r.ExtraPricingType(),
		RoomCost:                    r.TotalRoomCost(),
		LateCheckoutFee:             r.ChargeableLateCheckoutFee(),
		RoomCostWithLateCheckoutFee: r.TotalRoomCostWithLateCheckoutFee(),
		GeneralExtrasCost:           r.TotalGeneralExtrasCost(),
		MealPlansCost:               r.TotalMealPlansCost(),
		TotalCostExcludingTax:       subtotal,
		TaxRate:                     TaxRate,
		TaxableAmount:               tax,
		TotalCostIncludingTax:       subtotal.Add(tax),
	}
}

// FreezeQuote stores the current quote as the approved bill. Later catalogue
// changes no longer move the price of the reservation.
func (r *Reservation) FreezeQuote() error {
	raw, err := json.Marshal(r.Quote())
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	r.PaidQuote = datatypes.JSON(raw)
	return nil
}

// BilledQuote is the frozen bill of a paid reservation, or the live quote.
func (r *Reservation) BilledQuote() Quote {
	if !r.IsPaid() || len(r.PaidQuote) == 0 || string(r.PaidQuote) == "null" {
		return r.Quote()
	}
	var q Quote
	if err := json.Unmarshal(r.PaidQuote, &q); err != nil {
		return r.Quote()
	}
	return q
}
