// services/store.go
package services

import (
	"errors"
	"time"

	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator the booking flow and the guest
// orchestrator talk to. Kept narrow so tests can swap in a fake.
type Store interface {
	GetActiveBarber(id uuid.UUID) (*models.Barber, error)
	GetActiveService(id uuid.UUID) (*models.Service, error)
	BarberOffersService(barberID, serviceID uuid.UUID) (bool, error)
	ListBookingsForDay(barberID uuid.UUID, date time.Time) ([]models.Booking, error)
	ListHolidays(barberID uuid.UUID) ([]models.Holiday, error)
	InsertBooking(b *models.Booking) error
}

// GormStore backs Store with the postgres database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetActiveBarber(id uuid.UUID) (*models.Barber, error) {
	var barber models.Barber
	err := s.db.Where("id = ? AND is_active = true", id).First(&barber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get barber", Err: err}
	}
	return &barber, nil
}

func (s *GormStore) GetActiveService(id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := s.db.Where("id = ? AND is_active = true", id).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get service", Err: err}
	}
	return &service, nil
}

func (s *GormStore) BarberOffersService(barberID, serviceID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Table("barber_services").
		Where("barber_id = ? AND service_id = ?", barberID, serviceID).
		Count(&count).Error
	if err != nil {
		return false, &PersistenceError{Op: "check barber services", Err: err}
	}
	return count > 0, nil
}

func (s *GormStore) ListBookingsForDay(barberID uuid.UUID, date time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	day := utils.BeginningOfDay(date)
	err := s.db.Where("barber_id = ? AND date = ?", barberID, day).
		Order("start_time").Find(&bookings).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

func (s *GormStore) ListHolidays(barberID uuid.UUID) ([]models.Holiday, error) {
	var holidays []models.Holiday
	err := s.db.Where("barber_id = ?", barberID).Find(&holidays).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list holidays", Err: err}
	}
	return holidays, nil
}

// InsertBooking writes the booking inside a transaction that re-checks
// for an overlapping occupying booking on the same barber and day.
// Closes the window between the availability read and the write: the
// loser of a double-booking race gets a ConflictError instead of a
// silent overlap.
func (s *GormStore) InsertBooking(b *models.Booking) error {
	startMin, err := parseClock(b.StartTime)
	if err != nil {
		return &ValidationError{Field: "time", Reason: "expected HH:MM"}
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var sameDay []models.Booking
		if err := tx.Where("barber_id = ? AND date = ?", b.BarberID, utils.BeginningOfDay(b.Date)).
			Find(&sameDay).Error; err != nil {
			return err
		}
		if overlapsAny(startMin, startMin+b.Duration, occupiedIntervals(sameDay, nil)) {
			return &ConflictError{Reason: BlockOverlap}
		}
		return tx.Create(b).Error
	})

	var conflict *ConflictError
	if errors.As(txErr, &conflict) {
		return conflict
	}
	if txErr != nil {
		return &PersistenceError{Op: "insert booking", Err: txErr}
	}
	return nil
}
