package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-reservation/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type HotelService struct {
	DB     *gorm.DB
	Quotes *QuoteCache
}

func NewHotelService(db *gorm.DB, quotes *QuoteCache) *HotelService {
	return &HotelService{DB: db, Quotes: quotes}
}

type HotelInput struct {
	Name            string
	Address         string
	Phone           string
	Email           string
	Website         string
	LateCheckoutFee decimal.Decimal
}

// Get returns the hotel record, or an empty one when none is configured.
func (s *HotelService) Get(ctx context.Context) (models.Hotel, error) {
	var hotel models.Hotel
	if err := s.DB.WithContext(ctx).Order("id ASC").First(&hotel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Hotel{}, nil
		}
		return models.Hotel{}, fmt.Errorf("failed to load hotel: %w", err)
	}
	return hotel, nil
}

// Update creates the hotel record on first use and updates it afterwards.
// Every room without a hotel is linked to it.
func (s *HotelService) Update(ctx context.Context, in HotelInput) (models.Hotel, error) {
	if in.LateCheckoutFee.IsNegative() {
		return models.Hotel{}, fmt.Errorf("%w: late checkout fee must not be negative", ErrInvalidInput)
	}
	var hotel models.Hotel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("id ASC").First(&hotel).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load hotel: %w", err)
		}
		hotel.Name = strings.TrimSpace(in.Name)
		hotel.Address = strings.TrimSpace(in.Address)
		hotel.Phone = strings.TrimSpace(in.Phone)
		hotel.Email = strings.TrimSpace(in.Email)
		hotel.Website = strings.TrimSpace(in.Website)
		hotel.LateCheckoutFee = in.LateCheckoutFee.Round(2)
		if err := tx.Save(&hotel).Error; err != nil {
			return fmt.Errorf("failed to save hotel: %w", err)
		}
		return tx.Model(&models.Room{}).Where("hotel_id IS NULL").Update("hotel_id", hotel.ID).Error
	})
	if err != nil {
		return models.Hotel{}, err
	}
	s.Quotes.InvalidateAll(ctx)
	return hotel, nil
}
