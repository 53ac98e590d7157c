// services/reschedule.go
package services

import (
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"
)

// checkSlot applies the four block conditions to a single proposed slot.
// exclude, when non-nil, is left out of the overlap check (a booking may
// be moved onto its own prior interval). Returns nil when bookable.
func checkSlot(date time.Time, start string, durationMin int, bookings []models.Booking, holidays []models.Holiday, exclude *models.Booking, sched config.Schedule, now time.Time) error {
	startMin, err := parseClock(start)
	if err != nil {
		return &ValidationError{Field: "time", Reason: "expected HH:MM"}
	}

	for i := range holidays {
		if holidays[i].Covers(date) {
			return &ConflictError{Reason: BlockHoliday}
		}
	}

	day := utils.BeginningOfDay(date)
	if day.Before(utils.BeginningOfDay(now)) ||
		(utils.SameDay(date, now) && startMin <= now.Hour()*60+now.Minute()) {
		return &ConflictError{Reason: BlockPast}
	}

	if startMin < sched.OpenHour*60 || startMin+durationMin > sched.CloseHour*60 {
		return &ConflictError{Reason: BlockOutsideHours}
	}

	if overlapsAny(startMin, startMin+durationMin, occupiedIntervals(bookings, exclude)) {
		return &ConflictError{Reason: BlockOverlap}
	}

	return nil
}

// ValidateMove decides whether an existing booking may be moved to a new
// date and start time. Same rules as slot generation, against the given
// day's bookings, with the moved booking excluded so it can keep (or
// reclaim) its own interval. Returns nil on acceptance or a
// ConflictError naming the block reason.
func ValidateMove(booking models.Booking, newDate time.Time, newTime string, existing []models.Booking, holidays []models.Holiday, sched config.Schedule, now time.Time) error {
	return checkSlot(newDate, newTime, booking.Duration, existing, holidays, &booking, sched, now)
}
