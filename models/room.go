package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	HotelID *uint `json:"hotelId,omitempty" gorm:"column:hotel_id;index"`

	RoomNumber   string          `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	RoomType     RoomType        `json:"roomType" gorm:"column:room_type;type:varchar(20);not null"`
	Beds         int             `json:"beds" gorm:"column:beds;not null;default:1"`
	CostPerNight decimal.Decimal `json:"costPerNight" gorm:"column:cost_per_night;type:decimal(10,2);not null"`
	Floor        string          `json:"floor" gorm:"type:varchar(10)"`
	Description  string          `json:"description" gorm:"type:text"`

	Hotel *Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}
