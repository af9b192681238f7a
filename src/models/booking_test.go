package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackfillPricing(t *testing.T) {
	tt := TicketType{ID: 1, Price: 500, Currency: "INR"}

	t.Run("snapshots price and currency on a fresh attendee", func(t *testing.T) {
		attendee := Attendee{TicketTypeID: 1}
		attendee.BackfillPricing(&tt)
		assert.Equal(t, float64(500), attendee.Amount)
		assert.Equal(t, "INR", attendee.Currency)
	})

	t.Run("never overwrites an already captured amount", func(t *testing.T) {
		attendee := Attendee{TicketTypeID: 1, Amount: 400, Currency: "INR"}
		attendee.BackfillPricing(&tt)
		assert.Equal(t, float64(400), attendee.Amount)
	})

	t.Run("coupon attendees stay free", func(t *testing.T) {
		attendee := Attendee{TicketTypeID: 1, CouponCode: "ab12cd"}
		attendee.BackfillPricing(&tt)
		assert.Equal(t, float64(0), attendee.Amount)
		assert.Equal(t, "INR", attendee.Currency)
	})
}

func TestSetCurrency(t *testing.T) {
	t.Run("takes the currency from the attendees", func(t *testing.T) {
		booking := Booking{Attendees: []Attendee{
			{Currency: "INR"},
			{Currency: "INR"},
		}}
		err := booking.SetCurrency()
		assert.Nil(t, err)
		assert.Equal(t, "INR", booking.Currency)
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		booking := Booking{Attendees: []Attendee{
			{Currency: "INR"},
			{Currency: "USD"},
		}}
		err := booking.SetCurrency()
		assert.NotNil(t, err)
	})

	t.Run("rejects an empty booking", func(t *testing.T) {
		booking := Booking{}
		err := booking.SetCurrency()
		assert.NotNil(t, err)
	})
}

func TestSetTotals(t *testing.T) {
	settings := &Setting{ApplyTaxOnBookings: true, TaxPercentage: 18}

	t.Run("applies tax on domestic bookings", func(t *testing.T) {
		booking := Booking{
			Currency: "INR",
			Attendees: []Attendee{
				{Amount: 500, AddOn: &AttendeeAddOn{Items: []AttendeeAddOnItem{
					{Price: 100, Currency: "INR"},
				}}},
				{Amount: 500},
			},
		}
		booking.SetTotals(settings)
		assert.Equal(t, float64(1100), booking.NetAmount)
		assert.Equal(t, float64(18), booking.TaxPercentage)
		assert.Equal(t, float64(198), booking.TaxAmount)
		assert.Equal(t, float64(1298), booking.TotalAmount)
	})

	t.Run("skips tax on the same booking when the flag is off", func(t *testing.T) {
		booking := Booking{
			Currency: "INR",
			Attendees: []Attendee{
				{Amount: 500, AddOn: &AttendeeAddOn{Items: []AttendeeAddOnItem{
					{Price: 100, Currency: "INR"},
				}}},
				{Amount: 500},
			},
		}
		booking.SetTotals(&Setting{})
		assert.Equal(t, float64(1100), booking.NetAmount)
		assert.Equal(t, float64(0), booking.TaxAmount)
		assert.Equal(t, float64(1100), booking.TotalAmount)
	})

	t.Run("skips tax on foreign currency bookings", func(t *testing.T) {
		booking := Booking{
			Currency:  "USD",
			Attendees: []Attendee{{Amount: 100}},
		}
		booking.SetTotals(settings)
		assert.Equal(t, float64(100), booking.NetAmount)
		assert.Equal(t, float64(0), booking.TaxAmount)
		assert.Equal(t, float64(100), booking.TotalAmount)
	})

	t.Run("skips tax when the settings flag is off", func(t *testing.T) {
		booking := Booking{
			Currency:  "INR",
			Attendees: []Attendee{{Amount: 100}},
		}
		booking.SetTotals(&Setting{})
		assert.Equal(t, float64(100), booking.TotalAmount)
		assert.Equal(t, float64(0), booking.TaxAmount)
	})

	t.Run("falls back to the default percentage", func(t *testing.T) {
		booking := Booking{
			Currency:  "INR",
			Attendees: []Attendee{{Amount: 100}},
		}
		booking.SetTotals(&Setting{ApplyTaxOnBookings: true})
		assert.Equal(t, float64(18), booking.TaxPercentage)
		assert.Equal(t, float64(118), booking.TotalAmount)
	})

	t.Run("is idempotent on unchanged inputs", func(t *testing.T) {
		booking := Booking{
			Currency:  "INR",
			Attendees: []Attendee{{Amount: 1000}},
		}
		booking.SetTotals(settings)
		first := booking.TotalAmount
		booking.SetTotals(settings)
		assert.Equal(t, first, booking.TotalAmount)
		assert.Equal(t, float64(1000), booking.NetAmount)
	})
}

func TestSetAddOnTotals(t *testing.T) {
	t.Run("sums the selection document", func(t *testing.T) {
		attendee := Attendee{AddOn: &AttendeeAddOn{Items: []AttendeeAddOnItem{
			{Price: 100},
			{Price: 250},
		}}}
		attendee.SetAddOnTotals()
		assert.Equal(t, float64(350), attendee.AddOnTotal)
		assert.Equal(t, 2, attendee.NumberOfAddOns)
	})

	t.Run("clears totals when no add-ons are selected", func(t *testing.T) {
		attendee := Attendee{AddOnTotal: 99, NumberOfAddOns: 3}
		attendee.SetAddOnTotals()
		assert.Equal(t, float64(0), attendee.AddOnTotal)
		assert.Equal(t, 0, attendee.NumberOfAddOns)
	})
}
