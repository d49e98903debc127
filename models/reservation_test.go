package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stay(t *testing.T, checkIn, checkOut string, late bool) ReservationDates {
	t.Helper()
	d, err := NewReservationDates(checkIn, checkOut, late)
	if err != nil {
		t.Fatalf("dates %s..%s: %v", checkIn, checkOut, err)
	}
	return d
}

func testRoom(roomType RoomType, beds int, perNight string) *Room {
	return &Room{
		RoomNumber:   "101",
		RoomType:     roomType,
		Beds:         beds,
		CostPerNight: dec(perNight),
		Hotel:        &Hotel{Name: "Test", LateCheckoutFee: dec("25.00")},
	}
}

func reservationWithRoom(t *testing.T, room *Room) *Reservation {
	t.Helper()
	r := NewReservation()
	if err := r.SetRoom(room); err != nil {
		t.Fatalf("SetRoom: %v", err)
	}
	return r
}

func TestNewReservationHasPublicIDAndEmptyCollections(t *testing.T) {
	r := NewReservation()
	if r.PublicID == uuid.Nil {
		t.Fatal("expected generated public id")
	}
	if r.Guests == nil || r.GeneralExtras == nil || r.MealPlans == nil || r.AttemptedPayments == nil {
		t.Fatal("expected non-nil collections")
	}
	if r.IsPaid() {
		t.Fatal("new reservation must not be paid")
	}
}

func TestAddGuestNeverExceedsBeds(t *testing.T) {
	for beds := 1; beds <= 4; beds++ {
		r := reservationWithRoom(t, testRoom(RoomTypeDouble, beds, "100"))
		var full int
		for i := 0; i < beds+3; i++ {
			err := r.AddGuest(NewGuest("Guest", string(rune('A'+i))))
			if errors.Is(err, ErrRoomFull) {
				full++
			} else if err != nil {
				t.Fatalf("AddGuest: %v", err)
			}
			if len(r.Guests) > beds {
				t.Fatalf("beds=%d: guest count %d exceeds capacity", beds, len(r.Guests))
			}
		}
		if len(r.Guests) != beds {
			t.Fatalf("beds=%d: want %d guests, got %d", beds, beds, len(r.Guests))
		}
		if full != 3 {
			t.Fatalf("beds=%d: want 3 ErrRoomFull, got %d", beds, full)
		}
		if !r.IsRoomFull() {
			t.Fatalf("beds=%d: room should be full", beds)
		}
	}
}

func TestAddGuestWithoutRoom(t *testing.T) {
	r := NewReservation()
	if err := r.AddGuest(NewGuest("A", "B")); !errors.Is(err, ErrNoRoom) {
		t.Fatalf("want ErrNoRoom, got %v", err)
	}
}

func TestAddSameGuestTwiceIsNoop(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeTwin, 2, "80"))
	g := NewGuest("Ann", "Lee")
	if err := r.AddGuest(g); err != nil {
		t.Fatal(err)
	}
	if err := r.AddGuest(g); err != nil {
		t.Fatal(err)
	}
	if len(r.Guests) != 1 {
		t.Fatalf("want 1 guest, got %d", len(r.Guests))
	}
}

func TestSetGuestsEnforcesCapacity(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeTwin, 2, "80"))
	guests := []Guest{NewGuest("A", "A"), NewGuest("B", "B"), NewGuest("C", "C")}
	if err := r.SetGuests(guests); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("want ErrRoomFull, got %v", err)
	}
	if len(r.Guests) != 0 {
		t.Fatalf("roster must be unchanged, got %d", len(r.Guests))
	}
	dup := NewGuest("D", "D")
	if err := r.SetGuests([]Guest{dup, dup}); err != nil {
		t.Fatalf("duplicates should collapse: %v", err)
	}
	if len(r.Guests) != 1 {
		t.Fatalf("want 1 guest, got %d", len(r.Guests))
	}
}

func TestSetGuestsKeepsKnownGuests(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 2, "100"))
	known := NewGuest("Ada", "Adult")
	known.ID = 7
	r.Guests = []Guest{known}
	r.MealPlans = []MealPlan{{ID: 3, GuestID: known.ID, Guest: known}}

	resent := known
	resent.ID = 0
	resent.Email = "ada@example.com"
	if err := r.SetGuests([]Guest{NewGuest("Bob", "Adult"), resent}); err != nil {
		t.Fatal(err)
	}
	if len(r.Guests) != 2 || r.Guests[1].ID != 7 || r.Guests[1].Email != "ada@example.com" {
		t.Fatalf("roster: %+v", r.Guests)
	}
	if len(r.MealPlans) != 1 || r.MealPlans[0].GuestID != 7 || r.MealPlans[0].Guest.Email != "ada@example.com" {
		t.Fatalf("meal plans: %+v", r.MealPlans)
	}

	if err := r.SetGuests([]Guest{NewGuest("Cy", "New")}); err != nil {
		t.Fatal(err)
	}
	if len(r.MealPlans) != 0 {
		t.Fatalf("plan of a dropped guest kept: %+v", r.MealPlans)
	}
}

func TestBilledQuoteIsFrozenOnceFrozen(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 2, "100"))
	r.Dates = stay(t, "2026-03-01", "2026-03-03", false)
	if !r.BilledQuote().TotalCostIncludingTax.Equal(dec("220")) {
		t.Fatalf("live quote: %s", r.BilledQuote().TotalCostIncludingTax)
	}

	r.SetCreatedTimeNow()
	if err := r.FreezeQuote(); err != nil {
		t.Fatal(err)
	}
	r.Room.CostPerNight = dec("999")
	if got := r.BilledQuote().TotalCostIncludingTax; !got.Equal(dec("220")) {
		t.Fatalf("frozen bill moved to %s", got)
	}
	if !r.Quote().TotalCostIncludingTax.Equal(dec("2197.8")) {
		t.Fatalf("live quote: %s", r.Quote().TotalCostIncludingTax)
	}
}

func TestSetRoomRejectsSmallerRoom(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 3, "100"))
	for _, n := range []string{"A", "B", "C"} {
		if err := r.AddGuest(NewGuest(n, n)); err != nil {
			t.Fatal(err)
		}
	}
	small := testRoom(RoomTypeSingle, 1, "50")
	if err := r.SetRoom(small); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("want ErrRoomFull, got %v", err)
	}
	if r.Room.Beds != 3 {
		t.Fatal("room must not change on rejection")
	}
}

func TestRemoveGuestByTempID(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 2, "100"))
	g := NewGuest("A", "B")
	_ = r.AddGuest(g)
	if r.RemoveGuestByTempID(uuid.New()) {
		t.Fatal("unknown id should not remove")
	}
	if !r.RemoveGuestByTempID(g.TempID) {
		t.Fatal("expected removal")
	}
	if r.HasGuests() {
		t.Fatal("expected no guests")
	}
}

func TestGuestHelpers(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 3, "100"))
	child := NewGuest("Kid", "Zed")
	child.Child = true
	primary := NewGuest("Pat", "Young")
	primary.PrimaryContact = true
	other := NewGuest("Al", "Able")
	_ = r.AddGuest(child)
	if r.HasAtLeastOneAdultGuest() {
		t.Fatal("only a child so far")
	}
	_ = r.AddGuest(other)
	_ = r.AddGuest(primary)
	if !r.HasAtLeastOneAdultGuest() {
		t.Fatal("expected an adult")
	}
	if pc := r.PrimaryContacts(); len(pc) != 1 || pc[0].TempID != primary.TempID {
		t.Fatalf("unexpected primary contacts %+v", pc)
	}
	sorted := r.SortedGuests()
	want := []uuid.UUID{primary.TempID, other.TempID, child.TempID}
	for i, g := range sorted {
		if g.TempID != want[i] {
			t.Fatalf("position %d: got %s", i, g.FullName())
		}
	}
	r.ClearGuests()
	if r.HasGuests() {
		t.Fatal("expected cleared roster")
	}
}

func TestSetGeneralExtrasRejectsNonGeneral(t *testing.T) {
	r := NewReservation()
	valid := []Extra{{ID: 1, Category: ExtraCategoryGeneral, Price: dec("5")}}
	if err := r.SetGeneralExtras(valid); err != nil {
		t.Fatalf("SetGeneralExtras: %v", err)
	}
	cases := [][]Extra{
		{{ID: 2, Category: ExtraCategoryFood}},
		{{ID: 3, Category: ExtraCategoryGeneral}, {ID: 4, Category: ExtraCategoryFood}},
		{{ID: 5, Category: ""}},
	}
	for i, extras := range cases {
		if err := r.SetGeneralExtras(extras); !errors.Is(err, ErrInvalidExtraCategory) {
			t.Fatalf("case %d: want ErrInvalidExtraCategory, got %v", i, err)
		}
		if len(r.GeneralExtras) != 1 || r.GeneralExtras[0].ID != 1 {
			t.Fatalf("case %d: extras must be unchanged", i)
		}
	}
	r.ResetExtras()
	if len(r.GeneralExtras) != 0 {
		t.Fatal("expected reset extras")
	}
}

func TestSetMealPlansRejectsNonFood(t *testing.T) {
	r := NewReservation()
	bad := []MealPlan{{FoodExtras: []Extra{{Category: ExtraCategoryGeneral}}}}
	if err := r.SetMealPlans(bad); !errors.Is(err, ErrInvalidExtraCategory) {
		t.Fatalf("want ErrInvalidExtraCategory, got %v", err)
	}
}

func TestExtraPricingType(t *testing.T) {
	tests := []struct {
		roomType RoomType
		want     ExtraType
	}{
		{RoomTypeSingle, ExtraTypeBasic},
		{RoomTypeDouble, ExtraTypeBasic},
		{RoomTypeTwin, ExtraTypeBasic},
		{RoomTypeBusiness, ExtraTypePremium},
		{RoomTypeLuxury, ExtraTypePremium},
	}
	for _, tt := range tests {
		r := reservationWithRoom(t, testRoom(tt.roomType, 2, "100"))
		if got := r.ExtraPricingType(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.roomType, got, tt.want)
		}
	}
}

func TestLateCheckoutFee(t *testing.T) {
	for _, rt := range RoomTypes {
		for _, late := range []bool{false, true} {
			r := reservationWithRoom(t, testRoom(rt, 2, "100"))
			r.Dates = stay(t, "2026-01-01", "2026-01-03", late)
			fee := r.ChargeableLateCheckoutFee()
			switch {
			case rt.IsPremium():
				if !fee.IsZero() || !r.LateCheckoutFee().IsZero() {
					t.Errorf("%s late=%v: premium fee must be zero, got %s", rt, late, fee)
				}
			case late:
				if !fee.Equal(dec("25")) {
					t.Errorf("%s: want 25, got %s", rt, fee)
				}
			default:
				if !fee.IsZero() {
					t.Errorf("%s: no late checkout, got %s", rt, fee)
				}
			}
		}
	}
}

func TestZeroNightsCostsNothing(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 2, "100"))
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r.Dates = ReservationDates{CheckIn: &day, CheckOut: &day, LateCheckout: true}
	_ = r.SetGeneralExtras([]Extra{{Category: ExtraCategoryGeneral, Price: dec("10")}})
	_ = r.SetMealPlans([]MealPlan{{FoodExtras: []Extra{{Category: ExtraCategoryFood, Price: dec("15")}}}})
	if !r.TotalRoomCost().IsZero() {
		t.Fatalf("room cost: %s", r.TotalRoomCost())
	}
	if !r.TotalCostIncludingTax().IsZero() {
		t.Fatalf("total: %s", r.TotalCostIncludingTax())
	}

	empty := NewReservation()
	if !empty.TotalCostIncludingTax().IsZero() {
		t.Fatal("reservation without room or dates must cost nothing")
	}
}

func TestTotals(t *testing.T) {
	r := reservationWithRoom(t, testRoom(RoomTypeDouble, 2, "120.50"))
	r.Dates = stay(t, "2026-05-01", "2026-05-04", true)

	adult := NewGuest("A", "A")
	child := NewGuest("C", "C")
	child.Child = true
	if err := r.SetGuests([]Guest{adult, child}); err != nil {
		t.Fatal(err)
	}
	if err := r.SetGeneralExtras([]Extra{
		{ID: 1, Category: ExtraCategoryGeneral, Price: dec("10.00")},
		{ID: 2, Category: ExtraCategoryGeneral, Price: dec("2.50")},
	}); err != nil {
		t.Fatal(err)
	}
	breakfast := Extra{ID: 3, Category: ExtraCategoryFood, Price: dec("20.00")}
	if err := r.SetMealPlans([]MealPlan{
		{Guest: adult, FoodExtras: []Extra{breakfast}},
		{Guest: child, FoodExtras: []Extra{breakfast}},
	}); err != nil {
		t.Fatal(err)
	}

	// 3 nights
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"room", r.TotalRoomCost(), "361.50"},
		{"room+fee", r.TotalRoomCostWithLateCheckoutFee(), "386.50"},
		{"extras", r.TotalGeneralExtrasCost(), "37.50"},
		{"meals", r.TotalMealPlansCost(), "84.00"}, // 60 + 60*0.4
		{"subtotal", r.TotalCostExcludingTax(), "508.00"},
		{"tax", r.TaxableAmount(), "50.80"},
		{"total", r.TotalCostIncludingTax(), "558.80"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}

	q := r.Quote()
	if q.Nights != 3 || !q.TotalCostIncludingTax.Equal(r.TotalCostIncludingTax()) {
		t.Fatalf("quote mismatch: %+v", q)
	}
	if !r.HasMealPlans() || !r.HasMealPlansWithFoodExtras() {
		t.Fatal("expected meal plans with food extras")
	}
}

func TestTotalIncludingTaxIsExactlyElevenTenths(t *testing.T) {
	prices := []string{"0.01", "33.33", "99.99", "120.50", "1234.57"}
	for _, p := range prices {
		for nights := 1; nights <= 5; nights++ {
			r := reservationWithRoom(t, testRoom(RoomTypeSingle, 1, p))
			in := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
			out := in.AddDate(0, 0, nights)
			r.Dates = ReservationDates{CheckIn: &in, CheckOut: &out, LateCheckout: nights%2 == 0}
			_ = r.SetGeneralExtras([]Extra{{Category: ExtraCategoryGeneral, Price: dec("3.33")}})
			want := r.TotalCostExcludingTax().Mul(dec("1.10"))
			if got := r.TotalCostIncludingTax(); !got.Equal(want) {
				t.Fatalf("price %s nights %d: got %s want %s", p, nights, got, want)
			}
		}
	}
}

func TestPaidLifecycle(t *testing.T) {
	r := NewReservation()
	r.AddAttemptedPayment(Payment{Status: PaymentDeclined})
	if r.IsPaid() {
		t.Fatal("declined payment must not mark paid")
	}
	r.AddAttemptedPayment(Payment{Status: PaymentApproved})
	r.SetCreatedTimeNow()
	if !r.IsPaid() || len(r.AttemptedPayments) != 2 {
		t.Fatal("expected paid with two attempts")
	}
}
