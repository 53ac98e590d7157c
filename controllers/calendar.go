// controllers/calendar.go
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

// CalendarController serves the admin calendar: day listings, manual
// blocks, rescheduling and cancellation.
type CalendarController struct {
	Store services.Store
	Sched config.Schedule
	Now   func() time.Time
}

// GetDay lists bookings for a date, optionally for a single barber
func (cc *CalendarController) GetDay(c *gin.Context) {
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}

	query := config.DB.Where("date = ?", utils.BeginningOfDay(date))
	if barberID := c.Query("barberId"); barberID != "" {
		barberUUID, err := uuid.Parse(barberID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid barber ID format")
			return
		}
		query = query.Where("barber_id = ?", barberUUID)
	}

	var bookings []models.Booking
	if err := query.Order("start_time").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CreateBlockInput reserves an interval without a customer, e.g. a
// lunch break. Status must be an occupying non-customer status.
type CreateBlockInput struct {
	BarberID uuid.UUID `json:"barberId" binding:"required"`
	Date     string    `json:"date" binding:"required"`
	Start    string    `json:"start" binding:"required"`
	Duration int       `json:"duration" binding:"required,min=5"`
	Status   string    `json:"status" binding:"required"`
	Notes    string    `json:"notes"`
}

// CreateBlock inserts a lunch-break or holiday block into the calendar
func (cc *CalendarController) CreateBlock(c *gin.Context) {
	var input CreateBlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Status != models.StatusLunchBreak && input.Status != models.StatusHoliday {
		utils.RespondWithError(c, http.StatusBadRequest, "Status must be lunch-break or holiday")
		return
	}
	date, ok := parseDateParam(c, input.Date)
	if !ok {
		return
	}

	block := &models.Booking{
		BarberID:  input.BarberID,
		ServiceID: uuid.Nil,
		Date:      utils.BeginningOfDay(date),
		StartTime: input.Start,
		Duration:  input.Duration,
		Notes:     input.Notes,
		Status:    input.Status,
	}

	if err := cc.Store.InsertBooking(block); err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, block)
}

// RescheduleInput is the proposed new slot for an existing booking
type RescheduleInput struct {
	Date  string `json:"date" binding:"required"`  // YYYY-MM-DD
	Start string `json:"start" binding:"required"` // HH:MM
}

// RescheduleBooking moves a booking to a new slot after validating the
// move against the same rules slot generation uses. The booking being
// moved is excluded from the overlap check so it may keep its own
// interval.
func (cc *CalendarController) RescheduleBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	newDate, ok := parseDateParam(c, input.Date)
	if !ok {
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, "id = ?", bookingUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !models.IsOccupyingStatus(booking.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Only active bookings can be rescheduled")
		return
	}

	existing, err := cc.Store.ListBookingsForDay(booking.BarberID, newDate)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	holidays, err := cc.Store.ListHolidays(booking.BarberID)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	if err := services.ValidateMove(booking, newDate, input.Start, existing, holidays, cc.Sched, cc.Now()); err != nil {
		respondWithServiceError(c, err)
		return
	}

	booking.Date = utils.BeginningOfDay(newDate)
	booking.StartTime = input.Start
	if err := config.DB.Save(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reschedule booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking marks a booking cancelled, freeing its slot
func (cc *CalendarController) CancelBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, "id = ?", bookingUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	booking.Status = models.StatusCancelled
	if err := config.DB.Save(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}
