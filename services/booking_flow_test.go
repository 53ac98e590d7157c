package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlowEnv() (*fakeStore, *FlowManager, uuid.UUID, uuid.UUID) {
	store := newFakeStore()
	serviceID := store.addService(30, true)
	barberID := store.addBarber(true, serviceID)

	verifier := NewPhoneVerificationService(NewMockVerifyGateway())
	now := func() time.Time { return at("2024-06-09T12:00") }
	manager := NewFlowManager(store, verifier, testSchedule(), now)
	return store, manager, barberID, serviceID
}

func TestGuestFlowHappyPath(t *testing.T) {
	_, manager, barberID, serviceID := newTestFlowEnv()

	flow := manager.Start(nil)
	assert.Equal(t, StepBarber, flow.Step())
	assert.False(t, flow.Authenticated())

	require.NoError(t, flow.SelectBarber(barberID))
	assert.Equal(t, StepService, flow.Step())

	require.NoError(t, flow.SelectService(serviceID))
	assert.Equal(t, StepDatetime, flow.Step())
	assert.Equal(t, 30, flow.Form().Duration)

	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))
	assert.Equal(t, StepGuestInfo, flow.Step())
	assert.True(t, flow.Form().SlotConfirmed)

	require.NoError(t, flow.SetGuestInfo("Jamie Doe", "+15551234567"))
	assert.Equal(t, StepVerifyPhone, flow.Step())

	sent, err := flow.SendVerificationCode()
	require.NoError(t, err)
	require.True(t, sent.Dispatched)
	require.NotEmpty(t, sent.MockCode, "mock gateway must expose the code")

	require.NoError(t, flow.SubmitVerificationCode(sent.MockCode))
	assert.Equal(t, StepNotes, flow.Step())
	assert.True(t, flow.Form().PhoneVerified)

	require.NoError(t, flow.SetNotes("fade, not too short"))
	assert.Equal(t, StepConfirmation, flow.Step())
	assert.True(t, flow.Confirmed())

	form := flow.Form()
	assert.Equal(t, barberID, form.BarberID)
	assert.Equal(t, serviceID, form.ServiceID)
	assert.Equal(t, "10:00", form.Start)
	assert.Equal(t, "Jamie Doe", form.GuestName)
}

func TestAuthenticatedFlowSkipsGuestSteps(t *testing.T) {
	_, manager, barberID, serviceID := newTestFlowEnv()

	userID := uuid.New()
	flow := manager.Start(&userID)
	assert.True(t, flow.Authenticated())

	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))

	// Straight to notes: no guest-info, no verify-phone.
	assert.Equal(t, StepNotes, flow.Step())

	require.NoError(t, flow.SetNotes(""))
	assert.True(t, flow.Confirmed())
	require.NotNil(t, flow.Form().UserID)
	assert.Equal(t, userID, *flow.Form().UserID)
}

func TestFlowRejectsOutOfStepOperations(t *testing.T) {
	_, manager, barberID, _ := newTestFlowEnv()

	flow := manager.Start(nil)

	var vErr *ValidationError
	err := flow.SetGuestInfo("Jamie", "+15551234567")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "step", vErr.Field)

	// Rejected in place: still at the first step, nothing recorded.
	assert.Equal(t, StepBarber, flow.Step())
	assert.Empty(t, flow.Form().GuestName)

	require.NoError(t, flow.SelectBarber(barberID))
	err = flow.SelectBarber(barberID)
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepService, flow.Step())
}

func TestFlowRejectsInactiveBarberAndService(t *testing.T) {
	store, manager, barberID, _ := newTestFlowEnv()
	inactiveBarber := store.addBarber(false)
	inactiveService := store.addService(30, false)

	flow := manager.Start(nil)

	var vErr *ValidationError
	require.ErrorAs(t, flow.SelectBarber(inactiveBarber), &vErr)
	assert.Equal(t, StepBarber, flow.Step())

	require.NoError(t, flow.SelectBarber(barberID))
	require.ErrorAs(t, flow.SelectService(inactiveService), &vErr)
	assert.Equal(t, StepService, flow.Step())
}

func TestFlowRejectsServiceNotOfferedByBarber(t *testing.T) {
	store, manager, barberID, _ := newTestFlowEnv()
	otherService := store.addService(45, true)

	flow := manager.Start(nil)
	require.NoError(t, flow.SelectBarber(barberID))

	var vErr *ValidationError
	require.ErrorAs(t, flow.SelectService(otherService), &vErr)
	assert.Equal(t, "service", vErr.Field)
}

func TestFlowSlotConflictAtConfirmation(t *testing.T) {
	store, manager, barberID, serviceID := newTestFlowEnv()

	flow := manager.Start(nil)
	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))

	// Another client grabbed 10:00 between render and confirm.
	store.bookings = append(store.bookings,
		confirmedBooking(barberID, day("2024-06-10"), "10:00", 30))

	var conflict *ConflictError
	require.ErrorAs(t, flow.SelectSlot(day("2024-06-10"), "10:00"), &conflict)
	assert.Equal(t, BlockOverlap, conflict.Reason)
	assert.Equal(t, StepDatetime, flow.Step())

	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:30"))
}

func TestFlowWrongVerificationCode(t *testing.T) {
	_, manager, barberID, serviceID := newTestFlowEnv()

	flow := manager.Start(nil)
	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))
	require.NoError(t, flow.SetGuestInfo("Jamie", "+15551234567"))

	_, err := flow.SendVerificationCode()
	require.NoError(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, flow.SubmitVerificationCode("000000"), &vErr)
	assert.Equal(t, "code", vErr.Field)

	// Refused to advance.
	assert.Equal(t, StepVerifyPhone, flow.Step())
	assert.False(t, flow.Form().PhoneVerified)
	assert.False(t, flow.Confirmed())
}

func TestFlowGatewayFailureIsExternalServiceError(t *testing.T) {
	store := newFakeStore()
	serviceID := store.addService(30, true)
	barberID := store.addBarber(true, serviceID)
	verifier := NewPhoneVerificationService(failingGateway{})
	manager := NewFlowManager(store, verifier, testSchedule(), func() time.Time { return at("2024-06-09T12:00") })

	flow := manager.Start(nil)
	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))
	require.NoError(t, flow.SetGuestInfo("Jamie", "+15551234567"))

	var extErr *ExternalServiceError
	_, err := flow.SendVerificationCode()
	require.ErrorAs(t, err, &extErr)

	// The step can simply be retried; state is unchanged.
	assert.Equal(t, StepVerifyPhone, flow.Step())
}

func TestFlowBackKeepsDataAndInvalidatesSlot(t *testing.T) {
	_, manager, barberID, serviceID := newTestFlowEnv()

	flow := manager.Start(nil)
	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))
	require.NoError(t, flow.SetGuestInfo("Jamie", "+15551234567"))

	require.NoError(t, flow.Back())
	assert.Equal(t, StepGuestInfo, flow.Step())
	// Data for the revisited step survives.
	assert.Equal(t, "Jamie", flow.Form().GuestName)
	assert.True(t, flow.Form().SlotConfirmed)

	require.NoError(t, flow.Back())
	assert.Equal(t, StepDatetime, flow.Step())
	// Re-entering datetime voids the earlier confirmation.
	assert.False(t, flow.Form().SlotConfirmed)
	assert.Equal(t, "10:00", flow.Form().Start)

	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "11:00"))
	assert.True(t, flow.Form().SlotConfirmed)
}

func TestFlowBackStopsAtFirstStep(t *testing.T) {
	_, manager, _, _ := newTestFlowEnv()
	flow := manager.Start(nil)

	var vErr *ValidationError
	assert.ErrorAs(t, flow.Back(), &vErr)
}

func TestFlowSlotRevalidatedAfterBack(t *testing.T) {
	_, manager, barberID, serviceID := newTestFlowEnv()

	userID := uuid.New()
	flow := manager.Start(&userID)
	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))

	// Walk back through datetime, then forward without re-validating.
	require.NoError(t, flow.Back())
	assert.Equal(t, StepDatetime, flow.Step())
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))

	require.NoError(t, flow.SetNotes("ok"))
	assert.True(t, flow.Confirmed())
}

func TestFlowManagerLifecycle(t *testing.T) {
	_, manager, _, _ := newTestFlowEnv()

	flow := manager.Start(nil)
	got, ok := manager.Get(flow.ID())
	require.True(t, ok)
	assert.Same(t, flow, got)

	manager.Discard(flow.ID())
	_, ok = manager.Get(flow.ID())
	assert.False(t, ok)
}

func TestChangingGuestPhoneVoidsVerification(t *testing.T) {
	_, manager, barberID, serviceID := newTestFlowEnv()

	flow := manager.Start(nil)
	require.NoError(t, flow.SelectBarber(barberID))
	require.NoError(t, flow.SelectService(serviceID))
	require.NoError(t, flow.SelectSlot(day("2024-06-10"), "10:00"))
	require.NoError(t, flow.SetGuestInfo("Jamie", "+15551234567"))

	sent, err := flow.SendVerificationCode()
	require.NoError(t, err)
	require.NoError(t, flow.SubmitVerificationCode(sent.MockCode))
	require.True(t, flow.Form().PhoneVerified)

	// Back to guest-info, new phone: verification must not carry over.
	require.NoError(t, flow.Back())
	require.NoError(t, flow.SetGuestInfo("Jamie", "+15559876543"))
	assert.False(t, flow.Form().PhoneVerified)
	assert.Equal(t, StepVerifyPhone, flow.Step())
}
