// services/booking_flow.go
package services

import (
	"strings"
	"sync"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/utils"

	"github.com/google/uuid"
)

// Step names the states of the booking wizard.
type Step string

const (
	StepBarber       Step = "barber"
	StepService      Step = "service"
	StepDatetime     Step = "datetime"
	StepGuestInfo    Step = "guest-info"
	StepVerifyPhone  Step = "verify-phone"
	StepNotes        Step = "notes"
	StepConfirmation Step = "confirmation"
)

// FormState is the accumulator threaded through a flow. It is handed
// out by value, so callers can read every field but never mutate the
// flow's copy, and it never contains verification codes.
type FormState struct {
	BarberID      uuid.UUID  `json:"barberId"`
	ServiceID     uuid.UUID  `json:"serviceId"`
	Duration      int        `json:"duration"`
	Date          time.Time  `json:"date"`
	Start         string     `json:"start"`
	GuestName     string     `json:"guestName"`
	GuestPhone    string     `json:"guestPhone"`
	Notes         string     `json:"notes"`
	UserID        *uuid.UUID `json:"userId,omitempty"`
	PhoneVerified bool       `json:"phoneVerified"`
	SlotConfirmed bool       `json:"slotConfirmed"`
}

// BookingFlow walks one end user through
// barber → service → datetime → guest-info → verify-phone → notes → confirmation.
// Authenticated users skip guest-info and verify-phone. Every submit
// method is only legal in its own step: out-of-step calls return a
// ValidationError and the machine stays where it is.
type BookingFlow struct {
	id     uuid.UUID
	mu     sync.Mutex
	step   Step
	form   FormState
	authed bool

	store    Store
	verifier *PhoneVerificationService
	sched    config.Schedule
	now      func() time.Time
}

func (f *BookingFlow) ID() uuid.UUID { return f.id }

func (f *BookingFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Form returns a copy of the accumulated state.
func (f *BookingFlow) Form() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *BookingFlow) Authenticated() bool { return f.authed }

// forwardOrder is the canonical step sequence for this flow.
func (f *BookingFlow) forwardOrder() []Step {
	if f.authed {
		return []Step{StepBarber, StepService, StepDatetime, StepNotes, StepConfirmation}
	}
	return []Step{StepBarber, StepService, StepDatetime, StepGuestInfo, StepVerifyPhone, StepNotes, StepConfirmation}
}

func (f *BookingFlow) requireStep(s Step) error {
	if f.step != s {
		return &ValidationError{Field: "step", Reason: "operation belongs to step " + string(s) + ", flow is at " + string(f.step)}
	}
	return nil
}

func (f *BookingFlow) advance() {
	order := f.forwardOrder()
	for i, s := range order {
		if s == f.step && i+1 < len(order) {
			f.step = order[i+1]
			return
		}
	}
}

// Back moves one step backwards. Entered data for revisited steps is
// kept, but stepping back into datetime (or past it) invalidates a
// previously confirmed slot, forcing re-validation before the flow can
// advance again.
func (f *BookingFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order := f.forwardOrder()
	for i, s := range order {
		if s == f.step {
			if i == 0 {
				return &ValidationError{Field: "step", Reason: "already at first step"}
			}
			f.step = order[i-1]
			if f.step == StepDatetime || i-1 < indexOf(order, StepDatetime) {
				f.form.SlotConfirmed = false
			}
			return nil
		}
	}
	return &ValidationError{Field: "step", Reason: "flow is complete"}
}

func indexOf(order []Step, s Step) int {
	for i, v := range order {
		if v == s {
			return i
		}
	}
	return -1
}

// SelectBarber validates and records the barber choice.
func (f *BookingFlow) SelectBarber(barberID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepBarber); err != nil {
		return err
	}
	if _, err := f.store.GetActiveBarber(barberID); err != nil {
		if err == ErrNotFound {
			return &ValidationError{Field: "barber", Reason: "barber not found or inactive"}
		}
		return err
	}

	f.form.BarberID = barberID
	f.advance()
	return nil
}

// SelectService validates the service is active and offered by the
// chosen barber.
func (f *BookingFlow) SelectService(serviceID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepService); err != nil {
		return err
	}
	service, err := f.store.GetActiveService(serviceID)
	if err != nil {
		if err == ErrNotFound {
			return &ValidationError{Field: "service", Reason: "service not found or inactive"}
		}
		return err
	}
	offered, err := f.store.BarberOffersService(f.form.BarberID, serviceID)
	if err != nil {
		return err
	}
	if !offered {
		return &ValidationError{Field: "service", Reason: "service not offered by selected barber"}
	}

	f.form.ServiceID = serviceID
	f.form.Duration = service.Duration
	f.advance()
	return nil
}

// SelectSlot re-validates the proposed slot against fresh booking and
// holiday data at the moment of confirmation. A slot shown as free at
// render time is never trusted: time has passed and other bookings may
// have landed. Conflicts come back as ConflictError so the surface can
// return the user to slot selection.
func (f *BookingFlow) SelectSlot(date time.Time, start string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepDatetime); err != nil {
		return err
	}

	bookings, err := f.store.ListBookingsForDay(f.form.BarberID, date)
	if err != nil {
		return err
	}
	holidays, err := f.store.ListHolidays(f.form.BarberID)
	if err != nil {
		return err
	}
	if err := checkSlot(date, start, f.form.Duration, bookings, holidays, nil, f.sched, f.now()); err != nil {
		return err
	}

	f.form.Date = utils.BeginningOfDay(date)
	f.form.Start = start
	f.form.SlotConfirmed = true
	f.advance()
	return nil
}

// SetGuestInfo records the guest's name and phone. Guest flows only.
func (f *BookingFlow) SetGuestInfo(name, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepGuestInfo); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "guest name is required"}
	}
	if !utils.ValidatePhone(phone) {
		return &ValidationError{Field: "phone", Reason: "invalid phone number format"}
	}

	// Changing the phone voids any earlier verification.
	if utils.NormalizePhone(phone) != utils.NormalizePhone(f.form.GuestPhone) {
		f.form.PhoneVerified = false
	}
	f.form.GuestName = strings.TrimSpace(name)
	f.form.GuestPhone = phone
	f.advance()
	return nil
}

// SendVerificationCode asks the gateway to text a code to the guest's
// phone. Legal only in the verify-phone step.
func (f *BookingFlow) SendVerificationCode() (*SendCodeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepVerifyPhone); err != nil {
		return nil, err
	}
	return f.verifier.SendCode(f.form.GuestPhone)
}

// SubmitVerificationCode checks the code with the gateway. A wrong code
// keeps the flow in verify-phone with a ValidationError; gateway
// failures pass through as ExternalServiceError so the step can simply
// be retried.
func (f *BookingFlow) SubmitVerificationCode(code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepVerifyPhone); err != nil {
		return err
	}
	ok, err := f.verifier.CheckCode(f.form.GuestPhone, code)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "code", Reason: "verification code rejected"}
	}

	f.form.PhoneVerified = true
	f.advance()
	return nil
}

// SetNotes stores optional notes and moves the flow to confirmation.
// The slot must still be in its confirmed state; otherwise the user
// went back through datetime and has to re-validate first.
func (f *BookingFlow) SetNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireStep(StepNotes); err != nil {
		return err
	}
	if !f.form.SlotConfirmed {
		return &ValidationError{Field: "slot", Reason: "selected slot must be re-validated"}
	}

	f.form.Notes = strings.TrimSpace(notes)
	f.advance()
	return nil
}

// Confirmed reports whether the flow reached its terminal state with
// everything the orchestrator needs.
func (f *BookingFlow) Confirmed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirmation || !f.form.SlotConfirmed {
		return false
	}
	if !f.authed && !f.form.PhoneVerified {
		return false
	}
	return true
}

// FlowManager owns the live flow instances, keyed by flow ID. A flow
// belongs to exactly one client session; abandoning it just discards
// the entry, as nothing is persisted before confirmation.
type FlowManager struct {
	mu    sync.Mutex
	flows map[uuid.UUID]*BookingFlow

	store    Store
	verifier *PhoneVerificationService
	sched    config.Schedule
	now      func() time.Time
}

func NewFlowManager(store Store, verifier *PhoneVerificationService, sched config.Schedule, now func() time.Time) *FlowManager {
	if now == nil {
		now = time.Now
	}
	return &FlowManager{
		flows:    make(map[uuid.UUID]*BookingFlow),
		store:    store,
		verifier: verifier,
		sched:    sched,
		now:      now,
	}
}

// Start creates a new flow. userID, when non-nil, marks the flow as
// authenticated: guest-info and verify-phone are skipped entirely.
func (m *FlowManager) Start(userID *uuid.UUID) *BookingFlow {
	flow := &BookingFlow{
		id:       uuid.New(),
		step:     StepBarber,
		authed:   userID != nil,
		store:    m.store,
		verifier: m.verifier,
		sched:    m.sched,
		now:      m.now,
	}
	flow.form.UserID = userID

	m.mu.Lock()
	m.flows[flow.id] = flow
	m.mu.Unlock()
	return flow
}

func (m *FlowManager) Get(id uuid.UUID) (*BookingFlow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow, ok := m.flows[id]
	return flow, ok
}

// Discard drops a flow, whether completed or abandoned.
func (m *FlowManager) Discard(id uuid.UUID) {
	m.mu.Lock()
	delete(m.flows, id)
	m.mu.Unlock()
}
