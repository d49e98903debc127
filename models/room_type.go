package models

import "strings"

// RoomType is the category of a room. It decides which extras catalogue
// applies and whether a late checkout is charged.
type RoomType string

const (
	RoomTypeSingle   RoomType = "Single"
	RoomTypeDouble   RoomType = "Double"
	RoomTypeTwin     RoomType = "Twin"
	RoomTypeBusiness RoomType = "Business"
	RoomTypeLuxury   RoomType = "Luxury"
)

// RoomTypes lists every room type in display order.
var RoomTypes = []RoomType{
	RoomTypeSingle,
	RoomTypeDouble,
	RoomTypeTwin,
	RoomTypeBusiness,
	RoomTypeLuxury,
}

// IsPremium reports whether rooms of this type get premium extras and a
// free late checkout.
func (t RoomType) IsPremium() bool {
	return t == RoomTypeLuxury || t == RoomTypeBusiness
}

// PricingType maps the room type onto the extras pricing tier.
func (t RoomType) PricingType() ExtraType {
	if t.IsPremium() {
		return ExtraTypePremium
	}
	return ExtraTypeBasic
}

// ParseRoomType matches case-insensitively.
func ParseRoomType(raw string) (RoomType, bool) {
	name := strings.TrimSpace(raw)
	for _, t := range RoomTypes {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return "", false
}
