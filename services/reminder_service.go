// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService texts customers the day before their appointment.
type ReminderService struct {
	db     *gorm.DB
	sender SmsSender
}

func NewReminderService(db *gorm.DB, sender SmsSender) *ReminderService {
	return &ReminderService{db: db, sender: sender}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders()
	})

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders finds tomorrow's confirmed bookings and sends each
// one a reminder SMS, logging the outcome per booking.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	tomorrow := utils.BeginningOfDay(time.Now().AddDate(0, 0, 1))

	var bookings []models.Booking
	if err := s.db.Where("date = ? AND status = ?", tomorrow, models.StatusConfirmed).
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's bookings: %v", err)
		return
	}

	for i := range bookings {
		s.sendReminder(&bookings[i])
	}

	log.Printf("Daily reminder processing completed, %d bookings", len(bookings))
}

func (s *ReminderService) sendReminder(b *models.Booking) {
	phone := b.GuestPhone
	name := b.GuestName
	if b.UserID != nil {
		var user models.User
		if err := s.db.First(&user, "id = ?", *b.UserID).Error; err != nil {
			log.Printf("Booking %s: failed to load user: %v", b.ID, err)
			return
		}
		phone = user.Phone
		name = user.Name
	}
	if phone == "" {
		return
	}

	message := fmt.Sprintf("Hi %s, a reminder of your appointment tomorrow at %s.", name, b.StartTime)

	status := "sent"
	errorMsg := ""
	if err := s.sender.Send(phone, message); err != nil {
		log.Printf("Failed to send reminder to %s: %v", phone, err)
		status = "failed"
		errorMsg = err.Error()
	}

	// Log the reminder
	reminderLog := models.ReminderLog{
		BookingID:    b.ID,
		Phone:        phone,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for booking %s: %v", b.ID, err)
	}
}
