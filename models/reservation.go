package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation is a guest's stay in one room together with the extras, meal
// plans and payment attempts that make up its bill.
//
// Guests, extras and meal plans are exported for GORM but should only be
// changed through the methods below so that capacity and category rules
// hold. Rows loaded from storage are not re-validated.
type Reservation struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PublicID uuid.UUID `gorm:"column:public_id;type:varchar(36);uniqueIndex;not null" json:"reservationId"`

	RoomID *uint `gorm:"column:room_id;index" json:"roomId,omitempty"`
	Room   *Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`

	Guests []Guest `gorm:"many2many:reservation_guests;joinForeignKey:ReservationID;joinReferences:GuestID" json:"guests"`

	Dates ReservationDates `gorm:"embedded" json:"dates"`

	GeneralExtras []Extra `gorm:"many2many:reservation_general_extras;joinForeignKey:ReservationID;joinReferences:GeneralExtraID" json:"generalExtras"`

	MealPlans         []MealPlan `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"mealPlans"`
	AttemptedPayments []Payment  `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"attemptedPayments"`

	// CreatedTime is when the reservation was successfully paid for.
	CreatedTime *time.Time `gorm:"column:created_time" json:"createdTime,omitempty"`
	// PaidQuote is the bill approved at payment.
	PaidQuote datatypes.JSON `gorm:"column:paid_quote" json:"-"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewReservation returns an empty reservation with a fresh public id.
func NewReservation() *Reservation {
	return &Reservation{
		PublicID:          uuid.New(),
		Guests:            []Guest{},
		GeneralExtras:     []Extra{},
		MealPlans:         []MealPlan{},
		AttemptedPayments: []Payment{},
	}
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.PublicID == uuid.Nil {
		r.PublicID = uuid.New()
	}
	return nil
}

// SetRoom assigns the room. A room with fewer beds than the current guest
// count is rejected.
func (r *Reservation) SetRoom(room *Room) error {
	if room != nil && len(r.Guests) > room.Beds {
		return ErrRoomFull
	}
	r.Room = room
	if room != nil {
		id := room.ID
		r.RoomID = &id
	} else {
		r.RoomID = nil
	}
	return nil
}

func (r *Reservation) SetDates(dates ReservationDates) error {
	if err := dates.Validate(); err != nil {
		return err
	}
	r.Dates = dates
	return nil
}

func (r *Reservation) capacity() int {
	if r.Room == nil {
		return 0
	}
	return r.Room.Beds
}

// IsRoomFull reports whether every bed already has a guest. Without a room
// there are no beds, so the room counts as full.
func (r *Reservation) IsRoomFull() bool {
	return len(r.Guests) >= r.capacity()
}

// AddGuest adds a guest if the room has a free bed. Adding a guest that is
// already on the reservation is a no-op.
func (r *Reservation) AddGuest(guest Guest) error {
	if r.Room == nil {
		return ErrNoRoom
	}
	if slices.ContainsFunc(r.Guests, func(g Guest) bool { return sameGuest(g, guest) }) {
		return nil
	}
	if r.IsRoomFull() {
		return ErrRoomFull
	}
	if guest.TempID == uuid.Nil {
		guest.TempID = uuid.New()
	}
	r.Guests = append(r.Guests, guest)
	return nil
}

// SetGuests replaces the roster. Duplicates are collapsed before the
// capacity check. A guest already on the roster keeps its row and takes the
// new details; meal plans of kept guests follow them.
func (r *Reservation) SetGuests(guests []Guest) error {
	if r.Room == nil && len(guests) > 0 {
		return ErrNoRoom
	}
	roster := make([]Guest, 0, len(guests))
	for _, g := range guests {
		if slices.ContainsFunc(roster, func(existing Guest) bool { return sameGuest(existing, g) }) {
			continue
		}
		if i := slices.IndexFunc(r.Guests, func(existing Guest) bool { return sameGuest(existing, g) }); i >= 0 {
			g.ID = r.Guests[i].ID
			g.TempID = r.Guests[i].TempID
			g.CreatedAt = r.Guests[i].CreatedAt
		}
		if g.TempID == uuid.Nil {
			g.TempID = uuid.New()
		}
		roster = append(roster, g)
	}
	if len(roster) > r.capacity() {
		return ErrRoomFull
	}
	r.Guests = roster

	plans := make([]MealPlan, 0, len(r.MealPlans))
	for _, m := range r.MealPlans {
		i := slices.IndexFunc(roster, func(g Guest) bool { return sameGuest(g, m.Guest) })
		if i < 0 {
			continue
		}
		m.Guest = roster[i]
		m.GuestID = roster[i].ID
		plans = append(plans, m)
	}
	r.MealPlans = plans
	return nil
}

// RemoveGuestByTempID removes the guest with the given temporary id, along
// with the guest's meal plan, and reports whether one was found.
func (r *Reservation) RemoveGuestByTempID(tempID uuid.UUID) bool {
	before := len(r.Guests)
	r.Guests = slices.DeleteFunc(r.Guests, func(g Guest) bool { return g.TempID == tempID })
	if len(r.Guests) == before {
		return false
	}
	r.MealPlans = slices.DeleteFunc(r.MealPlans, func(m MealPlan) bool { return m.Guest.TempID == tempID })
	return true
}

// ClearGuests empties the roster. Meal plans go with it.
func (r *Reservation) ClearGuests() {
	r.Guests = []Guest{}
	r.MealPlans = []MealPlan{}
}

func (r *Reservation) HasGuests() bool {
	return len(r.Guests) > 0
}

func (r *Reservation) HasAtLeastOneAdultGuest() bool {
	return slices.ContainsFunc(r.Guests, func(g Guest) bool { return !g.Child })
}

func (r *Reservation) PrimaryContacts() []Guest {
	out := []Guest{}
	for _, g := range r.Guests {
		if g.PrimaryContact {
			out = append(out, g)
		}
	}
	return out
}

func (r *Reservation) SortedGuests() []Guest {
	out := slices.Clone(r.Guests)
	slices.SortStableFunc(out, CompareGuests)
	return out
}

// SetGeneralExtras replaces the general extras. Every extra must be of
// category General.
func (r *Reservation) SetGeneralExtras(extras []Extra) error {
	if !allInCategory(extras, ExtraCategoryGeneral) {
		return ErrInvalidExtraCategory
	}
	unique := make([]Extra, 0, len(extras))
	for _, e := range extras {
		if e.ID != 0 && slices.ContainsFunc(unique, func(u Extra) bool { return u.ID == e.ID }) {
			continue
		}
		unique = append(unique, e)
	}
	r.GeneralExtras = unique
	return nil
}

func (r *Reservation) ResetExtras() {
	r.GeneralExtras = []Extra{}
}

// SetMealPlans replaces the meal plans after checking each holds only food
// extras.
func (r *Reservation) SetMealPlans(plans []MealPlan) error {
	for _, p := range plans {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	r.MealPlans = plans
	return nil
}

func (r *Reservation) ResetMealPlans() {
	r.MealPlans = []MealPlan{}
}

// SortedMealPlansByGuest orders plans by their guest.
func (r *Reservation) SortedMealPlansByGuest() []MealPlan {
	out := slices.Clone(r.MealPlans)
	slices.SortStableFunc(out, func(a, b MealPlan) int { return CompareGuests(a.Guest, b.Guest) })
	return out
}

// HasMealPlansWithFoodExtras reports whether any plan carries a chargeable
// food extra, as opposed to diet requirements only.
func (r *Reservation) HasMealPlansWithFoodExtras() bool {
	return slices.ContainsFunc(r.MealPlans, MealPlan.HasFoodExtras)
}

func (r *Reservation) HasMealPlans() bool {
	return slices.ContainsFunc(r.MealPlans, func(m MealPlan) bool {
		return m.HasFoodExtras() || m.HasDietRequirements()
	})
}

// AddAttemptedPayment records a payment attempt, approved or not.
func (r *Reservation) AddAttemptedPayment(p Payment) {
	r.AttemptedPayments = append(r.AttemptedPayments, p)
}

func (r *Reservation) SetCreatedTimeNow() {
	now := time.Now()
	r.CreatedTime = &now
}

// IsPaid reports whether a payment has gone through.
func (r *Reservation) IsPaid() bool {
	return r.CreatedTime != nil
}
