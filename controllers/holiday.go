// controllers/holiday.go
package controllers

import (
	"errors"
	"net/http"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateHolidayInput defines an inclusive [start, end] holiday range
type CreateHolidayInput struct {
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"endDate" binding:"required"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

// CreateHoliday records a holiday range for a barber
func CreateHoliday(c *gin.Context) {
	barberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid barber ID format")
		return
	}

	var input CreateHolidayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, ok := parseDateParam(c, input.StartDate)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, input.EndDate)
	if !ok {
		return
	}
	if end.Before(start) {
		utils.RespondWithError(c, http.StatusBadRequest, "End date must not precede start date")
		return
	}

	var barber models.Barber
	if err := config.DB.First(&barber, "id = ?", barberUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Barber not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	holiday := models.Holiday{
		BarberID:  barberUUID,
		StartDate: utils.BeginningOfDay(start),
		EndDate:   utils.BeginningOfDay(end),
		Reason:    input.Reason,
	}

	if err := config.DB.Create(&holiday).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create holiday")
		return
	}

	c.JSON(http.StatusCreated, holiday)
}

// GetHolidays lists a barber's holiday ranges
func GetHolidays(c *gin.Context) {
	barberUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid barber ID format")
		return
	}

	var holidays []models.Holiday
	if err := config.DB.Where("barber_id = ?", barberUUID).
		Order("start_date").Find(&holidays).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve holidays")
		return
	}

	c.JSON(http.StatusOK, holidays)
}

// DeleteHoliday removes a holiday range
func DeleteHoliday(c *gin.Context) {
	holidayUUID, err := uuid.Parse(c.Param("holidayId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid holiday ID format")
		return
	}

	result := config.DB.Where("id = ?", holidayUUID).Delete(&models.Holiday{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete holiday")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Holiday not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Holiday deleted successfully"})
}
