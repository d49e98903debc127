package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-reservation/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExtraService manages the catalogue of general and food extras.
type ExtraService struct {
	DB     *gorm.DB
	Quotes *QuoteCache
}

func NewExtraService(db *gorm.DB, quotes *QuoteCache) *ExtraService {
	return &ExtraService{DB: db, Quotes: quotes}
}

type ExtraInput struct {
	Description string
	Price       decimal.Decimal
	Type        string
	Category    string
}

// List returns the catalogue, optionally filtered. Empty filters match all.
func (s *ExtraService) List(ctx context.Context, category, extraType string) ([]models.Extra, error) {
	q := s.DB.WithContext(ctx).Order("category ASC, type ASC, id ASC")
	if category != "" {
		c, ok := models.ParseExtraCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
		}
		q = q.Where("category = ?", c)
	}
	if extraType != "" {
		t, ok := models.ParseExtraType(extraType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, extraType)
		}
		q = q.Where("type = ?", t)
	}
	var extras []models.Extra
	if err := q.Find(&extras).Error; err != nil {
		return nil, fmt.Errorf("failed to list extras: %w", err)
	}
	return extras, nil
}

func (s *ExtraService) Create(ctx context.Context, in ExtraInput) (*models.Extra, error) {
	t, ok := models.ParseExtraType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, in.Type)
	}
	c, ok := models.ParseExtraCategory(in.Category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	extra := models.Extra{Description: desc, Price: in.Price.Round(2), Type: t, Category: c}
	if err := s.DB.WithContext(ctx).Create(&extra).Error; err != nil {
		return nil, fmt.Errorf("failed to create extra: %w", err)
	}
	return &extra, nil
}

// Delete removes an extra from the catalogue and from the selections and
// meal plans of unpaid reservations. An extra on a paid bill is kept.
func (s *ExtraService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paid, err := paidReservationsUsing(tx, id)
		if err != nil {
			return err
		}
		if paid > 0 {
			return fmt.Errorf("%w: %d paid reservation(s)", ErrExtraInUse, paid)
		}
		if err := tx.Exec("DELETE FROM reservation_general_extras WHERE general_extra_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach extra: %w", err)
		}
		if err := tx.Exec("DELETE FROM meal_plan_food_extras WHERE extra_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach extra: %w", err)
		}
		res := tx.Delete(&models.Extra{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete extra: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrExtraNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Quotes.InvalidateAll(ctx)
	return nil
}

func paidReservationsUsing(tx *gorm.DB, extraID uint) (int64, error) {
	var paid int64
	err := tx.Raw(`SELECT COUNT(DISTINCT reservations.id) FROM reservations
		WHERE reservations.created_time IS NOT NULL AND (
			reservations.id IN (SELECT reservation_id FROM reservation_general_extras WHERE general_extra_id = ?)
			OR reservations.id IN (SELECT meal_plans.reservation_id FROM meal_plans
				JOIN meal_plan_food_extras ON meal_plan_food_extras.meal_plan_id = meal_plans.id
				WHERE meal_plan_food_extras.extra_id = ?))`, extraID, extraID).Scan(&paid).Error
	if err != nil {
		return 0, fmt.Errorf("failed to check extra usage: %w", err)
	}
	return paid, nil
}
