package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"hotel-reservation/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService wraps *gorm.DB with the reservation workflow: room and
// dates, guests, extras, meal plans and quotes.
type ReservationService struct {
	DB     *gorm.DB
	Quotes *QuoteCache
}

func NewReservationService(db *gorm.DB, quotes *QuoteCache) *ReservationService {
	return &ReservationService{DB: db, Quotes: quotes}
}

type CreateReservationInput struct {
	RoomID               uint
	CheckIn              string
	CheckOut             string
	LateCheckout         bool
	EstimatedCheckInTime string
}

type DatesInput struct {
	CheckIn              string
	CheckOut             string
	LateCheckout         bool
	EstimatedCheckInTime string
}

// MealPlanInput addresses the guest by temporary id since the UI may not
// know persisted guest ids yet.
type MealPlanInput struct {
	GuestTempID      uuid.UUID
	FoodExtraIDs     []uint
	DietRequirements []string
}

func preloadReservation(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Room.Hotel").
		Preload("Guests").
		Preload("GeneralExtras").
		Preload("MealPlans.Guest").
		Preload("MealPlans.FoodExtras").
		Preload("AttemptedPayments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func loadReservation(tx *gorm.DB, publicID uuid.UUID, lock bool) (*models.Reservation, error) {
	q := preloadReservation(tx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r models.Reservation
	if err := q.Where("public_id = ?", publicID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &r, nil
}

func findRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.Preload("Hotel").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("db error checking room %d: %w", roomID, err)
	}
	return &room, nil
}

// mutate runs fn on a locked, fully loaded reservation inside a transaction
// and drops the cached quote once the change is committed.
func (s *ReservationService) mutate(ctx context.Context, publicID uuid.UUID, fn func(tx *gorm.DB, r *models.Reservation) error) (*models.Reservation, error) {
	var out *models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadReservation(tx, publicID, true)
		if err != nil {
			return err
		}
		if r.IsPaid() {
			return ErrAlreadyPaid
		}
		if err := fn(tx, r); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(r).Error; err != nil {
			return fmt.Errorf("failed to save reservation: %w", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Quotes.Invalidate(ctx, publicID)
	return out, nil
}

// Create starts a reservation for a room and a date range.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	dates, err := models.NewReservationDates(strings.TrimSpace(in.CheckIn), strings.TrimSpace(in.CheckOut), in.LateCheckout)
	if err != nil {
		return nil, err
	}
	dates.EstimatedCheckInTime = strings.TrimSpace(in.EstimatedCheckInTime)

	r := models.NewReservation()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, in.RoomID)
		if err != nil {
			return err
		}
		if err := r.SetRoom(room); err != nil {
			return err
		}
		if err := r.SetDates(dates); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("reservation %s created for room %d", r.PublicID, in.RoomID)
	return r, nil
}

func (s *ReservationService) Get(ctx context.Context, publicID uuid.UUID) (*models.Reservation, error) {
	return loadReservation(s.DB.WithContext(ctx), publicID, false)
}

func (s *ReservationService) List(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.WithContext(ctx).
		Preload("Room").
		Preload("Guests").
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	return list, nil
}

// Delete removes an unpaid reservation with its meal plans and join rows.
// Paid reservations are kept for the payment history.
func (s *ReservationService) Delete(ctx context.Context, publicID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := loadReservation(tx, publicID, true)
		if err != nil {
			return err
		}
		if r.IsPaid() {
			return ErrAlreadyPaid
		}
		if err := deleteMealPlans(tx, r.MealPlans); err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", r.ID).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("failed to delete payments: %w", err)
		}
		if err := tx.Select("Guests", "GeneralExtras").Delete(r).Error; err != nil {
			return fmt.Errorf("failed to delete reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Quotes.Invalidate(ctx, publicID)
	return nil
}

func (s *ReservationService) AssignRoom(ctx context.Context, publicID uuid.UUID, roomID uint) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if err := r.SetRoom(room); err != nil {
			return err
		}
		// Extras are priced per tier; a tier change invalidates the selection.
		if len(r.GeneralExtras) > 0 && !extrasMatchTier(r.GeneralExtras, r.ExtraPricingType()) {
			r.ResetExtras()
			if err := tx.Model(r).Association("GeneralExtras").Clear(); err != nil {
				return fmt.Errorf("failed to clear extras: %w", err)
			}
		}
		return nil
	})
}

func extrasMatchTier(extras []models.Extra, tier models.ExtraType) bool {
	for _, e := range extras {
		if e.Type != tier {
			return false
		}
	}
	return true
}

func (s *ReservationService) UpdateDates(ctx context.Context, publicID uuid.UUID, in DatesInput) (*models.Reservation, error) {
	dates, err := models.NewReservationDates(strings.TrimSpace(in.CheckIn), strings.TrimSpace(in.CheckOut), in.LateCheckout)
	if err != nil {
		return nil, err
	}
	dates.EstimatedCheckInTime = strings.TrimSpace(in.EstimatedCheckInTime)
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		return r.SetDates(dates)
	})
}

func (s *ReservationService) AddGuest(ctx context.Context, publicID uuid.UUID, guest models.Guest) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		if err := r.AddGuest(guest); err != nil {
			return err
		}
		return syncGuests(tx, r)
	})
}

// ReplaceGuests swaps the whole roster, enforcing the same capacity rule as
// AddGuest.
func (s *ReservationService) ReplaceGuests(ctx context.Context, publicID uuid.UUID, guests []models.Guest) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		before := slices.Clone(r.MealPlans)
		if err := r.SetGuests(guests); err != nil {
			return err
		}
		if err := deleteMealPlans(tx, droppedPlans(before, r.MealPlans)); err != nil {
			return err
		}
		return syncGuests(tx, r)
	})
}

func (s *ReservationService) RemoveGuest(ctx context.Context, publicID uuid.UUID, tempID uuid.UUID) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		before := slices.Clone(r.MealPlans)
		if !r.RemoveGuestByTempID(tempID) {
			return ErrGuestNotFound
		}
		if err := deleteMealPlans(tx, droppedPlans(before, r.MealPlans)); err != nil {
			return err
		}
		return syncGuests(tx, r)
	})
}

func syncGuests(tx *gorm.DB, r *models.Reservation) error {
	if len(r.Guests) == 0 {
		if err := tx.Model(r).Association("Guests").Clear(); err != nil {
			return fmt.Errorf("failed to clear guests: %w", err)
		}
		return nil
	}
	// Association upserts skip rows that already exist, so details are saved first.
	for i := range r.Guests {
		if err := tx.Save(&r.Guests[i]).Error; err != nil {
			return fmt.Errorf("failed to save guest: %w", err)
		}
	}
	if err := tx.Model(r).Association("Guests").Replace(&r.Guests); err != nil {
		return fmt.Errorf("failed to save guests: %w", err)
	}
	return nil
}

func droppedPlans(before, after []models.MealPlan) []models.MealPlan {
	kept := make(map[uint]bool, len(after))
	for _, p := range after {
		kept[p.ID] = true
	}
	out := []models.MealPlan{}
	for _, p := range before {
		if p.ID != 0 && !kept[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func deleteMealPlans(tx *gorm.DB, plans []models.MealPlan) error {
	if len(plans) == 0 {
		return nil
	}
	for i := range plans {
		if err := tx.Select("FoodExtras").Delete(&plans[i]).Error; err != nil {
			return fmt.Errorf("failed to delete meal plan %d: %w", plans[i].ID, err)
		}
	}
	return nil
}

// AvailableExtras lists the extras of the reservation's pricing tier.
func (s *ReservationService) AvailableExtras(ctx context.Context, publicID uuid.UUID, category models.ExtraCategory) ([]models.Extra, error) {
	r, err := s.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}
	var extras []models.Extra
	if err := s.DB.WithContext(ctx).
		Where("type = ? AND category = ?", r.ExtraPricingType(), category).
		Order("id ASC").
		Find(&extras).Error; err != nil {
		return nil, fmt.Errorf("failed to list extras: %w", err)
	}
	return extras, nil
}

func findExtras(tx *gorm.DB, ids []uint) ([]models.Extra, error) {
	if len(ids) == 0 {
		return []models.Extra{}, nil
	}
	var extras []models.Extra
	if err := tx.Where("id IN ?", ids).Find(&extras).Error; err != nil {
		return nil, fmt.Errorf("failed to load extras: %w", err)
	}
	found := make(map[uint]bool, len(extras))
	for _, e := range extras {
		found[e.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, fmt.Errorf("%w: %d", ErrExtraNotFound, id)
		}
	}
	return extras, nil
}

// SetGeneralExtras replaces the general extras with the given catalogue
// entries. Any non-General extra fails with models.ErrInvalidExtraCategory,
// and an extra of the other pricing tier with ErrExtraTierMismatch.
func (s *ReservationService) SetGeneralExtras(ctx context.Context, publicID uuid.UUID, extraIDs []uint) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		extras, err := findExtras(tx, extraIDs)
		if err != nil {
			return err
		}
		if err := r.SetGeneralExtras(extras); err != nil {
			return err
		}
		tier := r.ExtraPricingType()
		for _, e := range r.GeneralExtras {
			if e.Type != tier {
				return fmt.Errorf("%w: %q is %s, room is priced %s", ErrExtraTierMismatch, e.Description, e.Type, tier)
			}
		}
		if len(r.GeneralExtras) == 0 {
			return tx.Model(r).Association("GeneralExtras").Clear()
		}
		if err := tx.Model(r).Association("GeneralExtras").Replace(&r.GeneralExtras); err != nil {
			return fmt.Errorf("failed to save extras: %w", err)
		}
		return nil
	})
}

func (s *ReservationService) ClearGeneralExtras(ctx context.Context, publicID uuid.UUID) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		r.ResetExtras()
		return tx.Model(r).Association("GeneralExtras").Clear()
	})
}

// SetMealPlans replaces every meal plan on the reservation. Each plan must
// name a guest on the roster and only food extras.
func (s *ReservationService) SetMealPlans(ctx context.Context, publicID uuid.UUID, inputs []MealPlanInput) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		guests := make(map[uuid.UUID]models.Guest, len(r.Guests))
		for _, g := range r.Guests {
			guests[g.TempID] = g
		}

		plans := make([]models.MealPlan, 0, len(inputs))
		seen := map[uuid.UUID]bool{}
		for _, in := range inputs {
			guest, ok := guests[in.GuestTempID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrGuestNotFound, in.GuestTempID)
			}
			if seen[in.GuestTempID] {
				return fmt.Errorf("%w: duplicate meal plan for guest %s", ErrInvalidInput, in.GuestTempID)
			}
			seen[in.GuestTempID] = true
			extras, err := findExtras(tx, in.FoodExtraIDs)
			if err != nil {
				return err
			}
			plans = append(plans, models.MealPlan{
				ReservationID:    r.ID,
				GuestID:          guest.ID,
				Guest:            guest,
				FoodExtras:       extras,
				DietRequirements: cleanStrings(in.DietRequirements),
			})
		}

		old := slices.Clone(r.MealPlans)
		if err := r.SetMealPlans(plans); err != nil {
			return err
		}
		if err := deleteMealPlans(tx, old); err != nil {
			return err
		}
		for i := range r.MealPlans {
			if err := tx.Omit("Guest").Create(&r.MealPlans[i]).Error; err != nil {
				return fmt.Errorf("failed to save meal plan: %w", err)
			}
		}
		return nil
	})
}

func (s *ReservationService) ClearMealPlans(ctx context.Context, publicID uuid.UUID) (*models.Reservation, error) {
	return s.mutate(ctx, publicID, func(tx *gorm.DB, r *models.Reservation) error {
		old := slices.Clone(r.MealPlans)
		r.ResetMealPlans()
		return deleteMealPlans(tx, old)
	})
}

// Quote prices the reservation, serving from the cache when possible. A paid
// reservation is quoted at its frozen bill.
func (s *ReservationService) Quote(ctx context.Context, publicID uuid.UUID) (models.Quote, error) {
	if !s.Quotes.enabled() {
		r, err := s.Get(ctx, publicID)
		if err != nil {
			return models.Quote{}, err
		}
		return r.BilledQuote(), nil
	}

	// read the generation before loading so a concurrent catalogue change
	// leaves this entry unreachable
	generation := s.Quotes.Generation(ctx)
	var current models.Reservation
	if err := s.DB.WithContext(ctx).Select("id", "updated_at").Where("public_id = ?", publicID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quote{}, ErrReservationNotFound
		}
		return models.Quote{}, fmt.Errorf("failed to load reservation: %w", err)
	}
	if q, ok := s.Quotes.Get(ctx, publicID, quoteVersion(current.UpdatedAt, generation)); ok {
		return q, nil
	}

	r, err := s.Get(ctx, publicID)
	if err != nil {
		return models.Quote{}, err
	}
	q := r.BilledQuote()
	s.Quotes.Set(ctx, publicID, quoteVersion(r.UpdatedAt, generation), q)
	return q, nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
