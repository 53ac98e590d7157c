package services

import (
	"errors"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for tests; no database involved.
type fakeStore struct {
	barbers  map[uuid.UUID]models.Barber
	services map[uuid.UUID]models.Service
	offers   map[uuid.UUID][]uuid.UUID // barber -> services offered
	bookings []models.Booking
	holidays []models.Holiday

	insertErr error
	inserted  []*models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		barbers:  make(map[uuid.UUID]models.Barber),
		services: make(map[uuid.UUID]models.Service),
		offers:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *fakeStore) addBarber(active bool, serviceIDs ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.barbers[id] = models.Barber{ID: id, Name: "Test Barber", IsActive: active}
	s.offers[id] = serviceIDs
	return id
}

func (s *fakeStore) addService(duration int, active bool) uuid.UUID {
	id := uuid.New()
	s.services[id] = models.Service{ID: id, Name: "Test Cut", Duration: duration, IsActive: active}
	return id
}

func (s *fakeStore) GetActiveBarber(id uuid.UUID) (*models.Barber, error) {
	b, ok := s.barbers[id]
	if !ok || !b.IsActive {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *fakeStore) GetActiveService(id uuid.UUID) (*models.Service, error) {
	svc, ok := s.services[id]
	if !ok || !svc.IsActive {
		return nil, ErrNotFound
	}
	return &svc, nil
}

func (s *fakeStore) BarberOffersService(barberID, serviceID uuid.UUID) (bool, error) {
	for _, id := range s.offers[barberID] {
		if id == serviceID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListBookingsForDay(barberID uuid.UUID, date time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.BarberID == barberID && utils.SameDay(b.Date, date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) ListHolidays(barberID uuid.UUID) ([]models.Holiday, error) {
	var out []models.Holiday
	for _, h := range s.holidays {
		if h.BarberID == barberID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertBooking(b *models.Booking) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.inserted = append(s.inserted, b)
	s.bookings = append(s.bookings, *b)
	return nil
}

// fakeSender records outbound SMS and can be told to fail.
type fakeSender struct {
	configured bool
	sendErr    error
	sent       []string // recipients
	bodies     []string
}

func (s *fakeSender) Configured() bool { return s.configured }

func (s *fakeSender) Send(to, body string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, to)
	s.bodies = append(s.bodies, body)
	return nil
}

// failingGateway always errors, simulating an unreachable verify API.
type failingGateway struct{}

func (failingGateway) Send(string) (string, error)        { return "", errors.New("gateway unreachable") }
func (failingGateway) Check(string, string) (bool, error) { return false, errors.New("gateway unreachable") }

func testSchedule() config.Schedule {
	return config.Schedule{OpenHour: 9, CloseHour: 17, SlotMinutes: 30}
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func confirmedBooking(barberID uuid.UUID, date time.Time, start string, duration int) models.Booking {
	return models.Booking{
		ID:        uuid.New(),
		BarberID:  barberID,
		Date:      date,
		StartTime: start,
		Duration:  duration,
		Status:    models.StatusConfirmed,
	}
}
