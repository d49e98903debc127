package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"hotel-reservation/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomService struct {
	DB     *gorm.DB
	Quotes *QuoteCache
}

func NewRoomService(db *gorm.DB, quotes *QuoteCache) *RoomService {
	return &RoomService{DB: db, Quotes: quotes}
}

type RoomInput struct {
	RoomNumber   string
	RoomType     string
	Beds         int
	CostPerNight decimal.Decimal
	Floor        string
	Description  string
}

// RoomUpdate carries a partial update; nil fields are left alone.
type RoomUpdate struct {
	RoomNumber   *string
	RoomType     *string
	Beds         *int
	CostPerNight *decimal.Decimal
	Floor        *string
	Description  *string
}

func validateRoom(room *models.Room) error {
	switch {
	case room.RoomNumber == "":
		return fmt.Errorf("%w: room number is required", ErrInvalidInput)
	case room.Beds < 1:
		return fmt.Errorf("%w: a room needs at least one bed", ErrInvalidInput)
	case room.CostPerNight.IsNegative():
		return fmt.Errorf("%w: cost per night must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (*models.Room, error) {
	roomType, ok := models.ParseRoomType(in.RoomType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, in.RoomType)
	}
	room := models.Room{
		RoomNumber:   strings.TrimSpace(in.RoomNumber),
		RoomType:     roomType,
		Beds:         in.Beds,
		CostPerNight: in.CostPerNight.Round(2),
		Floor:        strings.TrimSpace(in.Floor),
		Description:  strings.TrimSpace(in.Description),
	}
	if err := validateRoom(&room); err != nil {
		return nil, err
	}

	var hotel models.Hotel
	if err := s.DB.WithContext(ctx).Order("id ASC").First(&hotel).Error; err == nil {
		room.HotelID = &hotel.ID
		room.Hotel = &hotel
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}

	if err := s.DB.WithContext(ctx).Omit("Hotel").Create(&room).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoomNumber, room.RoomNumber)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	log.Printf("room %s (%s) created", room.RoomNumber, room.RoomType)
	return &room, nil
}

func (s *RoomService) GetAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Preload("Hotel").Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	return findRoom(s.DB.WithContext(ctx), id)
}

// Update applies a partial change. Beds cannot drop below the guest count of
// an unpaid reservation holding the room. A change of pricing tier clears the
// general extras of the old tier from those reservations.
func (s *RoomService) Update(ctx context.Context, id uint, in RoomUpdate) (*models.Room, error) {
	var room *models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = findRoom(tx, id)
		if err != nil {
			return err
		}
		if in.RoomNumber != nil {
			room.RoomNumber = strings.TrimSpace(*in.RoomNumber)
		}
		tier := room.RoomType.PricingType()
		if in.RoomType != nil {
			rt, ok := models.ParseRoomType(*in.RoomType)
			if !ok {
				return fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, *in.RoomType)
			}
			room.RoomType = rt
		}
		if in.Beds != nil {
			room.Beds = *in.Beds
		}
		if in.CostPerNight != nil {
			room.CostPerNight = in.CostPerNight.Round(2)
		}
		if in.Floor != nil {
			room.Floor = strings.TrimSpace(*in.Floor)
		}
		if in.Description != nil {
			room.Description = strings.TrimSpace(*in.Description)
		}
		if err := validateRoom(room); err != nil {
			return err
		}

		if in.Beds != nil {
			most, err := mostGuestsInRoom(tx, room.ID)
			if err != nil {
				return err
			}
			if most > int64(room.Beds) {
				return models.ErrRoomFull
			}
		}

		if err := tx.Omit("Hotel").Save(room).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateRoomNumber, room.RoomNumber)
			}
			return fmt.Errorf("failed to update room: %w", err)
		}
		if room.RoomType.PricingType() != tier {
			return dropExtrasOfOtherTier(tx, room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Quotes.InvalidateAll(ctx)
	return room, nil
}

func mostGuestsInRoom(tx *gorm.DB, roomID uint) (int64, error) {
	var counts []int64
	err := tx.Raw(`SELECT COUNT(*) FROM reservation_guests
		JOIN reservations ON reservations.id = reservation_guests.reservation_id
		WHERE reservations.room_id = ? AND reservations.created_time IS NULL
		GROUP BY reservation_guests.reservation_id`, roomID).Scan(&counts).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count guests: %w", err)
	}
	var most int64
	for _, c := range counts {
		most = max(most, c)
	}
	return most, nil
}

// dropExtrasOfOtherTier clears general extras that no longer match the room's
// pricing tier from the unpaid reservations holding it.
func dropExtrasOfOtherTier(tx *gorm.DB, room *models.Room) error {
	res := tx.Exec(`DELETE FROM reservation_general_extras
		WHERE reservation_id IN (SELECT id FROM reservations WHERE room_id = ? AND created_time IS NULL)
		AND general_extra_id IN (SELECT id FROM extras WHERE type <> ?)`, room.ID, room.RoomType.PricingType())
	if res.Error != nil {
		return fmt.Errorf("failed to clear extras: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("room %s is now %s; %d extra selection(s) of the other tier cleared", room.RoomNumber, room.RoomType.PricingType(), res.RowsAffected)
	}
	return nil
}

// Delete removes a room that no reservation refers to.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Reservation{}).Where("room_id = ?", id).Count(&inUse).Error; err != nil {
			return fmt.Errorf("failed to check room usage: %w", err)
		}
		if inUse > 0 {
			return ErrRoomInUse
		}
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete room: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}
		log.Printf("room %d deleted", id)
		return nil
	})
}
