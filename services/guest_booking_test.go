package services

import (
	"errors"
	"regexp"
	"strconv"
	"testing"

	"barberbook-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guestForm(barberID, serviceID uuid.UUID) FormState {
	return FormState{
		BarberID:      barberID,
		ServiceID:     serviceID,
		Duration:      30,
		Date:          day("2024-06-10"),
		Start:         "10:00",
		GuestName:     "Jamie Doe",
		GuestPhone:    "+1 555 123-4567",
		Notes:         "first visit",
		PhoneVerified: true,
		SlotConfirmed: true,
	}
}

func TestCreateGuestBookingHappyPath(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{configured: true}
	orch := NewGuestBookingOrchestrator(store, sender)

	barberID, serviceID := uuid.New(), uuid.New()
	result, err := orch.CreateGuestBooking(guestForm(barberID, serviceID))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), result.Code)
	assert.True(t, result.Notification.Success)
	assert.True(t, result.Notification.Configured)

	require.Len(t, store.inserted, 1)
	booking := store.inserted[0]
	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.Equal(t, barberID, booking.BarberID)
	assert.Equal(t, serviceID, booking.ServiceID)
	assert.Equal(t, result.Code, booking.Code)
	assert.Equal(t, "+15551234567", booking.GuestPhone, "phone is normalized before persisting")

	// SMS went to the guest and carries the code.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+15551234567", sender.sent[0])
	assert.Contains(t, sender.bodies[0], result.Code)
	assert.Contains(t, sender.bodies[0], "10:00")
}

func TestCreateGuestBookingSmsFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{configured: true, sendErr: errors.New("twilio 5xx")}
	orch := NewGuestBookingOrchestrator(store, sender)

	result, err := orch.CreateGuestBooking(guestForm(uuid.New(), uuid.New()))
	require.NoError(t, err, "a failed notification must not fail the booking")

	assert.False(t, result.Notification.Success)
	assert.Contains(t, result.Notification.Message, "twilio 5xx")
	assert.NotEmpty(t, result.Code, "code is still returned for on-screen fallback")

	// The booking exists in storage regardless.
	require.Len(t, store.inserted, 1)
	assert.Equal(t, models.StatusConfirmed, store.inserted[0].Status)
}

func TestCreateGuestBookingPersistenceFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.insertErr = &PersistenceError{Op: "insert booking", Err: errors.New("connection reset")}
	sender := &fakeSender{configured: true}
	orch := NewGuestBookingOrchestrator(store, sender)

	result, err := orch.CreateGuestBooking(guestForm(uuid.New(), uuid.New()))

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Nil(t, result)

	// No SMS for a booking that was never saved.
	assert.Empty(t, sender.sent)
}

func TestCreateGuestBookingConflictPassesThrough(t *testing.T) {
	store := newFakeStore()
	store.insertErr = &ConflictError{Reason: BlockOverlap}
	orch := NewGuestBookingOrchestrator(store, &fakeSender{})

	_, err := orch.CreateGuestBooking(guestForm(uuid.New(), uuid.New()))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, BlockOverlap, conflict.Reason)
}

func TestGenerateConfirmationCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateConfirmationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestCreateGuestBookingUnconfiguredProvider(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{configured: false}
	orch := NewGuestBookingOrchestrator(store, sender)

	result, err := orch.CreateGuestBooking(guestForm(uuid.New(), uuid.New()))
	require.NoError(t, err)

	assert.False(t, result.Notification.Configured)
	// The caller decides how to surface the code when no provider exists.
	assert.NotEmpty(t, result.Code)
}
