// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/services"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingController exposes the guest booking flow and slot availability.
type BookingController struct {
	Flows        *services.FlowManager
	Orchestrator *services.GuestBookingOrchestrator
	Store        services.Store
	Sched        config.Schedule
	Now          func() time.Time
}

// respondWithServiceError maps the service error taxonomy onto HTTP
// statuses: validation 400, conflict 409, gateway 502, persistence 500.
func respondWithServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var cErr *services.ConflictError
	var eErr *services.ExternalServiceError
	var pErr *services.PersistenceError

	switch {
	case errors.As(err, &vErr):
		utils.RespondWithError(c, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &cErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":  cErr.Error(),
			"reason": cErr.Reason,
		})
	case errors.As(err, &eErr):
		utils.RespondWithError(c, http.StatusBadGateway, eErr.Error())
	case errors.As(err, &pErr):
		utils.RespondWithError(c, http.StatusInternalServerError, pErr.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
	}
}

func parseDateParam(c *gin.Context, value string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// GetAvailability returns every candidate slot for a barber, service and
// date, available and blocked alike, so the surface can render disabled
// slots with their reason.
func (bc *BookingController) GetAvailability(c *gin.Context) {
	barberUUID, err := uuid.Parse(c.Query("barberId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid barber ID format")
		return
	}
	serviceUUID, err := uuid.Parse(c.Query("serviceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}

	if _, err := bc.Store.GetActiveBarber(barberUUID); err != nil {
		if err == services.ErrNotFound {
			utils.RespondWithError(c, http.StatusNotFound, "Barber not found")
		} else {
			respondWithServiceError(c, err)
		}
		return
	}
	service, err := bc.Store.GetActiveService(serviceUUID)
	if err != nil {
		if err == services.ErrNotFound {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			respondWithServiceError(c, err)
		}
		return
	}

	bookings, err := bc.Store.ListBookingsForDay(barberUUID, date)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	holidays, err := bc.Store.ListHolidays(barberUUID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	slots := services.ComputeSlots(holidays, service.Duration, date, bookings, bc.Sched, bc.Now())
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func flowState(flow *services.BookingFlow) gin.H {
	return gin.H{
		"flowId":        flow.ID(),
		"step":          flow.Step(),
		"authenticated": flow.Authenticated(),
		"form":          flow.Form(),
	}
}

// StartFlow opens a new booking flow. With a valid token the flow is
// authenticated and skips guest identification and phone verification.
func (bc *BookingController) StartFlow(c *gin.Context) {
	var userID *uuid.UUID
	if raw, exists := c.Get("userId"); exists {
		if id, err := uuid.Parse(raw.(string)); err == nil {
			userID = &id
		}
	}

	flow := bc.Flows.Start(userID)
	c.JSON(http.StatusCreated, flowState(flow))
}

func (bc *BookingController) flowFromParam(c *gin.Context) (*services.BookingFlow, bool) {
	flowUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid flow ID format")
		return nil, false
	}
	flow, ok := bc.Flows.Get(flowUUID)
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Booking flow not found")
		return nil, false
	}
	return flow, true
}

// GetFlow returns the flow's current step and accumulated form state
func (bc *BookingController) GetFlow(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

// AbandonFlow discards the flow and its state
func (bc *BookingController) AbandonFlow(c *gin.Context) {
	flowUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid flow ID format")
		return
	}
	bc.Flows.Discard(flowUUID)
	c.JSON(http.StatusOK, gin.H{"message": "Booking flow discarded"})
}

// FlowBack steps the flow backwards without clearing entered data
func (bc *BookingController) FlowBack(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	if err := flow.Back(); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

type selectBarberInput struct {
	BarberID uuid.UUID `json:"barberId" binding:"required"`
}

func (bc *BookingController) FlowSelectBarber(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	var input selectBarberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := flow.SelectBarber(input.BarberID); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

type selectServiceInput struct {
	ServiceID uuid.UUID `json:"serviceId" binding:"required"`
}

func (bc *BookingController) FlowSelectService(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	var input selectServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := flow.SelectService(input.ServiceID); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

type selectSlotInput struct {
	Date  string `json:"date" binding:"required"`  // YYYY-MM-DD
	Start string `json:"start" binding:"required"` // HH:MM
}

func (bc *BookingController) FlowSelectSlot(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	var input selectSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	date, ok := parseDateParam(c, input.Date)
	if !ok {
		return
	}
	if err := flow.SelectSlot(date, input.Start); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

type guestInfoInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

func (bc *BookingController) FlowGuestInfo(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	var input guestInfoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := flow.SetGuestInfo(input.Name, input.Phone); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

// FlowSendCode asks the verification gateway to text a one-time code to
// the guest's phone. Mock gateways return the code in the response.
func (bc *BookingController) FlowSendCode(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	result, err := flow.SendVerificationCode()
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type verifyCodeInput struct {
	Code string `json:"code" binding:"required"`
}

func (bc *BookingController) FlowCheckCode(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	var input verifyCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := flow.SubmitVerificationCode(input.Code); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

type notesInput struct {
	Notes string `json:"notes"`
}

func (bc *BookingController) FlowNotes(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	var input notesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := flow.SetNotes(input.Notes); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, flowState(flow))
}

// FlowConfirm hands the completed flow to the orchestrator. On success
// the flow is discarded and the result carries the persisted booking,
// the confirmation code and the SMS outcome; a failed SMS still returns
// 201 so the surface can show the code on-screen instead.
func (bc *BookingController) FlowConfirm(c *gin.Context) {
	flow, ok := bc.flowFromParam(c)
	if !ok {
		return
	}
	if !flow.Confirmed() {
		utils.RespondWithError(c, http.StatusBadRequest, "Booking flow is not ready for confirmation")
		return
	}

	form := flow.Form()
	if flow.Authenticated() {
		// Account bookings reuse the profile's contact details.
		var user models.User
		if err := config.DB.First(&user, "id = ?", *form.UserID).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load account details")
			return
		}
		form.GuestName = user.Name
		form.GuestPhone = user.Phone
	}

	result, err := bc.Orchestrator.CreateGuestBooking(form)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	bc.Flows.Discard(flow.ID())
	c.JSON(http.StatusCreated, result)
}

// LookupBooking fetches a guest booking by phone and confirmation code
func (bc *BookingController) LookupBooking(c *gin.Context) {
	phone := utils.NormalizePhone(c.Query("phone"))
	code := c.Query("code")
	if phone == "" || code == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "phone and code are required")
		return
	}

	var booking models.Booking
	if err := config.DB.Where("guest_phone = ? AND code = ?", phone, code).
		Order("date desc").First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}
