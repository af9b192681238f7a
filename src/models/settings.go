package models

import (
	"ems/src/config"
	"ems/src/types"
)

// Setting is a single-row table of process-wide knobs. Callers load it once
// per request and pass it into the pricing/transfer logic explicitly so
// behavior stays deterministic under test.
type Setting struct {
	ID                                 uint    `gorm:"primarykey" json:"id"`
	ApplyTaxOnBookings                 bool    `json:"apply_tax_on_bookings"`
	TaxPercentage                      float64 `json:"tax_percentage,omitempty"`
	AllowTransferTicketBeforeDays      int     `json:"allow_transfer_ticket_before_days,omitempty"`
	AllowAddOnsChangeBeforeDays        int     `json:"allow_add_ons_change_before_days,omitempty"`
	AllowCancellationRequestBeforeDays int     `json:"allow_cancellation_request_before_days,omitempty"`

	types.Timestamps
}

func (s *Setting) Validate() error {
	if err := validateCutoffDays("Allow Transfer Ticket Before Days", s.AllowTransferTicketBeforeDays); err != nil {
		return err
	}
	if err := validateCutoffDays("Allow Add-ons Change Before Days", s.AllowAddOnsChangeBeforeDays); err != nil {
		return err
	}
	if err := validateCutoffDays("Allow Cancellation Request Before Days", s.AllowCancellationRequestBeforeDays); err != nil {
		return err
	}
	if s.ApplyTaxOnBookings && s.TaxPercentage == 0 {
		s.TaxPercentage = config.DEFAULT_TAX_PERCENTAGE
	}
	return nil
}

func validateCutoffDays(field string, days int) error {
	if days < 0 {
		return types.NewValidationError("%s cannot be negative", field)
	}
	if days > 365 {
		return types.NewValidationError("%s cannot be more than 365 days", field)
	}
	return nil
}
