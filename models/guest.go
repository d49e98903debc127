package models

import (
	"cmp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// TempID identifies a guest on the add-guest page before it is persisted.
	TempID uuid.UUID `gorm:"type:varchar(36);index" json:"tempId"`

	FirstName      string     `gorm:"size:100" json:"firstName"`
	LastName       string     `gorm:"size:100" json:"lastName"`
	Email          string     `gorm:"size:150" json:"email"`
	Phone          string     `gorm:"size:50" json:"phone"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Child          bool       `gorm:"default:false" json:"child"`
	PrimaryContact bool       `gorm:"default:false" json:"primaryContact"`
}

// NewGuest returns a guest with a fresh temporary id.
func NewGuest(firstName, lastName string) Guest {
	return Guest{
		TempID:    uuid.New(),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
}

func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// sameGuest treats two guests as equal when they share a persisted id or a
// temporary id.
func sameGuest(a, b Guest) bool {
	if a.ID != 0 && a.ID == b.ID {
		return true
	}
	return a.TempID != uuid.Nil && a.TempID == b.TempID
}

// CompareGuests orders primary contacts first, then adults before children,
// then by last and first name.
func CompareGuests(a, b Guest) int {
	if a.PrimaryContact != b.PrimaryContact {
		if a.PrimaryContact {
			return -1
		}
		return 1
	}
	if a.Child != b.Child {
		if !a.Child {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName)); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName))
}
