package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking statuses. Only occupying statuses remove their interval from
// availability; cancelled and completed bookings free the slot.
const (
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
	StatusCompleted  = "completed"
	StatusLunchBreak = "lunch-break"
	StatusHoliday    = "holiday"
	StatusError      = "error"
)

// IsOccupyingStatus reports whether a booking with the given status blocks
// its time interval for the barber.
func IsOccupyingStatus(status string) bool {
	switch status {
	case StatusConfirmed, StatusLunchBreak, StatusHoliday:
		return true
	}
	return false
}

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	BarberID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	// UserID is set for authenticated bookings, nil for guest bookings.
	UserID *uuid.UUID `gorm:"type:uuid;index"`

	Date      time.Time `gorm:"type:date;index;not null"`
	StartTime string    `gorm:"type:varchar(5);not null"` // "15:04"
	Duration  int       `gorm:"not null"`                 // minutes, copied from the service at creation

	GuestName  string
	GuestPhone string `gorm:"index"`
	Notes      string

	Status string `gorm:"type:varchar(20);not null;default:'confirmed'"`

	// Code is the 6-digit confirmation code handed to guests. It is a
	// convenience lookup key, not unique by construction.
	Code string `gorm:"type:varchar(6);index"`

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
