package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingValidate(t *testing.T) {
	t.Run("accepts the zero value", func(t *testing.T) {
		s := Setting{}
		assert.Nil(t, s.Validate())
	})

	t.Run("accepts cutoffs inside the year", func(t *testing.T) {
		s := Setting{
			AllowTransferTicketBeforeDays:      7,
			AllowAddOnsChangeBeforeDays:        0,
			AllowCancellationRequestBeforeDays: 365,
		}
		assert.Nil(t, s.Validate())
	})

	t.Run("rejects negative cutoffs", func(t *testing.T) {
		s := Setting{AllowTransferTicketBeforeDays: -1}
		assert.NotNil(t, s.Validate())
	})

	t.Run("rejects cutoffs beyond a year", func(t *testing.T) {
		s := Setting{AllowAddOnsChangeBeforeDays: 366}
		assert.NotNil(t, s.Validate())
	})

	t.Run("defaults the tax percentage when tax is enabled", func(t *testing.T) {
		s := Setting{ApplyTaxOnBookings: true}
		assert.Nil(t, s.Validate())
		assert.Equal(t, float64(18), s.TaxPercentage)
	})

	t.Run("keeps an explicit tax percentage", func(t *testing.T) {
		s := Setting{ApplyTaxOnBookings: true, TaxPercentage: 12}
		assert.Nil(t, s.Validate())
		assert.Equal(t, float64(12), s.TaxPercentage)
	})
}
