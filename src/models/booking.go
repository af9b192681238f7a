package models

import (
	"ems/src/config"
	"ems/src/types"
)

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	UserID        uint                `json:"user_id,omitempty"`
	EventID       uint                `json:"event_id,omitempty"`
	Status        types.BookingStatus `gorm:"default:'draft'" json:"status,omitempty"`
	NetAmount     float64             `json:"net_amount"`
	TaxPercentage float64             `json:"tax_percentage,omitempty"`
	TaxAmount     float64             `json:"tax_amount"`
	TotalAmount   float64             `json:"total_amount"`
	Currency      string              `json:"currency,omitempty"`
	AmendedFromID *uint               `json:"amended_from,omitempty"`

	User      User       `json:"-"`
	Event     Event      `json:"event,omitempty"`
	Attendees []Attendee `json:"attendees,omitempty"`

	types.Timestamps
}

type Attendee struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	BookingID      uint    `json:"booking_id,omitempty"`
	FullName       string  `json:"full_name,omitempty"`
	Email          string  `json:"email,omitempty"`
	TicketTypeID   uint    `json:"ticket_type"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency,omitempty"`
	AddOnID        *uint   `json:"add_ons,omitempty"`
	AddOnTotal     float64 `json:"add_on_total"`
	NumberOfAddOns int     `json:"number_of_add_ons"`
	CouponCode     string  `json:"coupon_code,omitempty"`

	TicketType TicketType     `json:"ticket_type_details,omitempty"`
	AddOn      *AttendeeAddOn `gorm:"foreignKey:AddOnID" json:"add_on_details,omitempty"`

	types.Timestamps
}

// BackfillPricing snapshots the ticket type's current price onto the
// attendee. First write wins: an amount captured at draft time is never
// overwritten by later price changes on the type.
func (a *Attendee) BackfillPricing(tt *TicketType) {
	if a.Amount == 0 && a.CouponCode == "" {
		a.Amount = tt.Price
	}
	if a.Currency == "" {
		a.Currency = tt.Currency
	}
}

// SetAddOnTotals recomputes the add-on aggregate fields from the attendee's
// preloaded selection document.
func (a *Attendee) SetAddOnTotals() {
	if a.AddOn == nil {
		a.AddOnTotal = 0
		a.NumberOfAddOns = 0
		return
	}
	a.AddOnTotal = a.AddOn.Total()
	a.NumberOfAddOns = a.AddOn.Count()
}

// SetCurrency derives the booking currency from the first attendee. Mixing
// ticket types with different currencies in one booking is rejected.
func (b *Booking) SetCurrency() error {
	if len(b.Attendees) == 0 {
		return types.NewValidationError("booking has no attendees")
	}
	currency := b.Attendees[0].Currency
	for _, attendee := range b.Attendees {
		if attendee.Currency != currency {
			return types.NewValidationError("all attendees in a booking must share one currency, got %s and %s", currency, attendee.Currency)
		}
	}
	b.Currency = currency
	return nil
}

// SetTotals recomputes the booking's monetary fields from its attendee
// line items. It is a pure function of the loaded rows and the settings
// passed in, so re-running it on unchanged inputs is idempotent.
func (b *Booking) SetTotals(settings *Setting) {
	b.NetAmount = 0
	for i := range b.Attendees {
		attendee := &b.Attendees[i]
		attendee.SetAddOnTotals()
		b.NetAmount += attendee.Amount
		b.NetAmount += attendee.AddOnTotal
	}
	b.applyTax(settings)
}

func (b *Booking) applyTax(settings *Setting) {
	b.TaxAmount = 0
	if settings == nil || !settings.ApplyTaxOnBookings || b.Currency != config.DOMESTIC_CURRENCY {
		b.TaxPercentage = 0
		b.TotalAmount = b.NetAmount
		return
	}
	if b.TaxPercentage == 0 {
		b.TaxPercentage = settings.TaxPercentage
	}
	if b.TaxPercentage == 0 {
		b.TaxPercentage = config.DEFAULT_TAX_PERCENTAGE
	}
	b.TaxAmount = b.NetAmount * (b.TaxPercentage / 100)
	b.TotalAmount = b.NetAmount + b.TaxAmount
}
