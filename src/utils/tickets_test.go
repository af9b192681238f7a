package utils

import (
	"ems/src/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransferAndAddOnWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := models.Event{StartDate: now.AddDate(0, 0, 10)}

	t.Run("open while the cutoff is far enough out", func(t *testing.T) {
		settings := &models.Setting{AllowTransferTicketBeforeDays: 7, AllowAddOnsChangeBeforeDays: 7}
		assert.True(t, CanTransferTicket(&event, settings, now))
		assert.True(t, CanChangeAddOns(&event, settings, now))
	})

	t.Run("closed once inside the cutoff", func(t *testing.T) {
		settings := &models.Setting{AllowTransferTicketBeforeDays: 14, AllowAddOnsChangeBeforeDays: 14}
		assert.False(t, CanTransferTicket(&event, settings, now))
		assert.False(t, CanChangeAddOns(&event, settings, now))
	})

	t.Run("a zero cutoff keeps the window open until the event", func(t *testing.T) {
		settings := &models.Setting{}
		assert.True(t, CanTransferTicket(&event, settings, now))

		past := models.Event{StartDate: now.AddDate(0, 0, -1)}
		assert.False(t, CanTransferTicket(&past, settings, now))
	})

	t.Run("the boundary day is still allowed", func(t *testing.T) {
		settings := &models.Setting{AllowTransferTicketBeforeDays: 10}
		assert.True(t, CanTransferTicket(&event, settings, now))
	})
}
