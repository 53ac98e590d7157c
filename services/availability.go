// services/availability.go
package services

import (
	"fmt"
	"sort"
	"time"

	"barberbook-backend/config"
	"barberbook-backend/models"
	"barberbook-backend/utils"
)

// BlockReason explains why a candidate slot cannot be booked.
type BlockReason string

const (
	BlockPast         BlockReason = "past"
	BlockOverlap      BlockReason = "overlap"
	BlockHoliday      BlockReason = "holiday"
	BlockOutsideHours BlockReason = "outside-hours"
)

// TimeSlot is a generated candidate start time. Blocked candidates are
// returned too, with their reason, so the caller can render disabled
// slots instead of silently dropping them.
type TimeSlot struct {
	Date      time.Time   `json:"date"`
	Start     string      `json:"start"` // "15:04"
	Available bool        `json:"available"`
	Reason    BlockReason `json:"reason,omitempty"`
}

// ComputeSlots generates every candidate start time for the given barber
// day at the configured granularity and marks each one bookable or not.
// Pure function over its inputs: the caller fetches bookings and
// holidays once, before computing.
//
// Slots come back in chronological order. A slot is blocked when the
// date falls in a holiday range, when its start is not strictly after
// now (for today or earlier), when the service would run past closing,
// or when its interval overlaps an occupying booking.
func ComputeSlots(holidays []models.Holiday, durationMin int, date time.Time, bookings []models.Booking, sched config.Schedule, now time.Time) []TimeSlot {
	onHoliday := false
	for i := range holidays {
		if holidays[i].Covers(date) {
			onHoliday = true
			break
		}
	}

	occupied := occupiedIntervals(bookings, nil)

	day := utils.BeginningOfDay(date)
	sameDay := utils.SameDay(date, now)
	pastDay := day.Before(utils.BeginningOfDay(now))
	nowMinute := now.Hour()*60 + now.Minute()

	var slots []TimeSlot
	openMin := sched.OpenHour * 60
	closeMin := sched.CloseHour * 60

	for start := openMin; start < closeMin; start += sched.SlotMinutes {
		slot := TimeSlot{Date: day, Start: formatClock(start)}

		switch {
		case onHoliday:
			slot.Reason = BlockHoliday
		case pastDay, sameDay && start <= nowMinute:
			slot.Reason = BlockPast
		case start+durationMin > closeMin:
			slot.Reason = BlockOutsideHours
		case overlapsAny(start, start+durationMin, occupied):
			slot.Reason = BlockOverlap
		default:
			slot.Available = true
		}

		slots = append(slots, slot)
	}

	return slots
}

type interval struct {
	start, end int // minutes of day, half-open [start, end)
}

// occupiedIntervals collects the intervals of occupying bookings,
// skipping the booking with the excluded ID if one is given.
func occupiedIntervals(bookings []models.Booking, exclude *models.Booking) []interval {
	var out []interval
	for i := range bookings {
		b := &bookings[i]
		if exclude != nil && b.ID == exclude.ID {
			continue
		}
		if !models.IsOccupyingStatus(b.Status) {
			continue
		}
		start, err := parseClock(b.StartTime)
		if err != nil {
			continue
		}
		out = append(out, interval{start: start, end: start + b.Duration})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func overlapsAny(start, end int, occupied []interval) bool {
	for _, iv := range occupied {
		if start < iv.end && end > iv.start {
			return true
		}
	}
	return false
}

// parseClock converts "15:04" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("bad clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
