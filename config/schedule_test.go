package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadScheduleDefaults(t *testing.T) {
	t.Setenv("BOOKING_OPEN_HOUR", "")
	t.Setenv("BOOKING_CLOSE_HOUR", "")
	t.Setenv("BOOKING_SLOT_MINUTES", "")

	s := LoadSchedule()
	assert.Equal(t, 8, s.OpenHour)
	assert.Equal(t, 22, s.CloseHour)
	assert.Equal(t, 30, s.SlotMinutes)
}

func TestLoadScheduleFromEnv(t *testing.T) {
	t.Setenv("BOOKING_OPEN_HOUR", "9")
	t.Setenv("BOOKING_CLOSE_HOUR", "17")
	t.Setenv("BOOKING_SLOT_MINUTES", "15")

	s := LoadSchedule()
	assert.Equal(t, Schedule{OpenHour: 9, CloseHour: 17, SlotMinutes: 15}, s)
}

func TestLoadScheduleRejectsTooShortDay(t *testing.T) {
	// Business day shorter than one hour falls back to defaults.
	t.Setenv("BOOKING_OPEN_HOUR", "10")
	t.Setenv("BOOKING_CLOSE_HOUR", "10")
	t.Setenv("BOOKING_SLOT_MINUTES", "30")

	s := LoadSchedule()
	assert.Equal(t, 8, s.OpenHour)
	assert.Equal(t, 22, s.CloseHour)
}

func TestLoadScheduleRejectsBadSlotLength(t *testing.T) {
	t.Setenv("BOOKING_OPEN_HOUR", "9")
	t.Setenv("BOOKING_CLOSE_HOUR", "17")
	t.Setenv("BOOKING_SLOT_MINUTES", "-5")

	s := LoadSchedule()
	assert.Equal(t, 30, s.SlotMinutes)
}
