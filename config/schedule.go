package config

import (
	"os"
	"strconv"
)

// Schedule is the business-hours configuration slot generation runs
// against. It is loaded once at startup and passed into availability
// computations explicitly, never read ambiently.
type Schedule struct {
	OpenHour    int // first bookable hour of the day
	CloseHour   int // no appointment may run past this hour
	SlotMinutes int // candidate slot granularity
}

const (
	defaultOpenHour    = 8
	defaultCloseHour   = 22
	defaultSlotMinutes = 30
)

// LoadSchedule reads BOOKING_OPEN_HOUR, BOOKING_CLOSE_HOUR and
// BOOKING_SLOT_MINUTES. Invalid combinations fall back to defaults:
// the business day must be at least one hour long and slots must have
// a positive length.
func LoadSchedule() Schedule {
	s := Schedule{
		OpenHour:    envInt("BOOKING_OPEN_HOUR", defaultOpenHour),
		CloseHour:   envInt("BOOKING_CLOSE_HOUR", defaultCloseHour),
		SlotMinutes: envInt("BOOKING_SLOT_MINUTES", defaultSlotMinutes),
	}

	if s.OpenHour < 0 || s.CloseHour > 24 || s.OpenHour > s.CloseHour-1 {
		s.OpenHour = defaultOpenHour
		s.CloseHour = defaultCloseHour
	}
	if s.SlotMinutes <= 0 {
		s.SlotMinutes = defaultSlotMinutes
	}

	return s
}

func envInt(key string, fallback int) int {
	if env := os.Getenv(key); env != "" {
		if n, err := strconv.Atoi(env); err == nil {
			return n
		}
	}
	return fallback
}
