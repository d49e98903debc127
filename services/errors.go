package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrReservationNotFound   = errors.New("reservation_not_found")
	ErrRoomNotFound          = errors.New("room_not_found")
	ErrRoomInUse             = errors.New("room_in_use")
	ErrExtraNotFound         = errors.New("extra_not_found")
	ErrExtraInUse            = errors.New("extra_in_use")
	ErrExtraTierMismatch     = errors.New("extra_tier_mismatch")
	ErrGuestNotFound         = errors.New("guest_not_found")
	ErrAlreadyPaid           = errors.New("reservation_already_paid")
	ErrReservationIncomplete = errors.New("reservation_incomplete")
	ErrInvalidCredentials    = errors.New("invalid_credentials")
	ErrInvalidToken          = errors.New("invalid_token")
	ErrDuplicateRoomNumber   = errors.New("duplicate_room_number")
	ErrDuplicateUsername     = errors.New("duplicate_username")
	ErrInvalidInput          = errors.New("invalid_input")
)

// isDuplicateKey recognises unique-index violations from MySQL, and falls
// back to message matching for the other drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique constraint")
}
