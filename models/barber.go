package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null"`
	Phone    string
	Bio      string
	IsActive bool `gorm:"default:true"`

	Services []Service `gorm:"many2many:barber_services"`
	Holidays []Holiday `gorm:"foreignKey:BarberID"`
	Bookings []Booking `gorm:"foreignKey:BarberID"`

	gorm.Model
}

func (b *Barber) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
