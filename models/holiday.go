package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday is an inclusive [StartDate, EndDate] range during which a barber
// takes no bookings. Dates are compared at day precision.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	BarberID  uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string

	gorm.Model
}

func (h *Holiday) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}

// Covers reports whether day falls inside the holiday range, inclusive on
// both ends.
func (h *Holiday) Covers(day time.Time) bool {
	y, m, d := day.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = h.StartDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = h.EndDate.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}
