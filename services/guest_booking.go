// services/guest_booking.go
package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"

	"barberbook-backend/models"
	"barberbook-backend/utils"
)

// GuestBookingResult carries everything the caller needs to inform the
// guest: the persisted booking, its confirmation code, and how the
// confirmation SMS went. The SMS outcome is informational; a failed
// send never unwinds the booking.
type GuestBookingResult struct {
	Booking      *models.Booking    `json:"booking"`
	Code         string             `json:"confirmationCode"`
	Notification NotificationResult `json:"notification"`
}

// GuestBookingOrchestrator turns a completed booking flow into a stored
// booking plus a best-effort confirmation SMS, strictly in that order.
type GuestBookingOrchestrator struct {
	store  Store
	sender SmsSender
}

func NewGuestBookingOrchestrator(store Store, sender SmsSender) *GuestBookingOrchestrator {
	return &GuestBookingOrchestrator{store: store, sender: sender}
}

// CreateGuestBooking persists the booking from the accumulated form
// state. Persistence failure is fatal and nothing else runs; an SMS
// failure afterwards is captured in the result so the caller can show
// the code on-screen as the fallback delivery path.
func (o *GuestBookingOrchestrator) CreateGuestBooking(form FormState) (*GuestBookingResult, error) {
	code, err := generateConfirmationCode()
	if err != nil {
		return nil, &PersistenceError{Op: "generate confirmation code", Err: err}
	}

	booking := &models.Booking{
		BarberID:   form.BarberID,
		ServiceID:  form.ServiceID,
		UserID:     form.UserID,
		Date:       utils.BeginningOfDay(form.Date),
		StartTime:  form.Start,
		Duration:   form.Duration,
		GuestName:  form.GuestName,
		GuestPhone: utils.NormalizePhone(form.GuestPhone),
		Notes:      form.Notes,
		Status:     models.StatusConfirmed,
		Code:       code,
	}

	// Fatal path: no SMS is attempted for a booking that was never saved.
	if err := o.store.InsertBooking(booking); err != nil {
		return nil, err
	}

	result := &GuestBookingResult{Booking: booking, Code: code}
	result.Notification = o.sendConfirmation(booking)
	return result, nil
}

func (o *GuestBookingOrchestrator) sendConfirmation(b *models.Booking) NotificationResult {
	res := NotificationResult{Configured: o.sender.Configured()}

	body := fmt.Sprintf(
		"Your appointment on %s at %s is confirmed. Confirmation code: %s. Booking ref %s.",
		b.Date.Format("2006-01-02"), b.StartTime, b.Code, b.ID,
	)

	if err := o.sender.Send(b.GuestPhone, body); err != nil {
		log.Printf("Confirmation SMS to %s failed: %v", b.GuestPhone, err)
		res.Message = err.Error()
		return res
	}

	res.Success = true
	res.Message = "confirmation SMS dispatched"
	return res
}

// generateConfirmationCode draws a 6-digit code uniformly from
// [100000, 999999]. Uniqueness is not guaranteed by construction; the
// code is a lookup convenience for guests, not a key.
func generateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
