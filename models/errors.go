package models

import "errors"

var (
	// ErrInvalidExtraCategory is returned when an extra of the wrong category
	// is assigned to general extras or to a meal plan.
	ErrInvalidExtraCategory = errors.New("extras contain invalid categories")

	// ErrRoomFull is returned when a guest change would exceed the room's beds.
	ErrRoomFull = errors.New("room is full")

	// ErrNoRoom is returned when guests are added before a room is assigned.
	ErrNoRoom = errors.New("reservation has no room")

	ErrInvalidDates = errors.New("check-out must be after check-in")
)
