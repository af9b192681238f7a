package models

import (
	"ems/src/types"

	"github.com/google/uuid"
)

// Payment is the bookkeeping row recorded before redirecting the caller to
// the gateway. The webhook marks it received later.
type Payment struct {
	ID              uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID          uint         `json:"user_id,omitempty"`
	Amount          float64      `json:"amount"`
	Currency        string       `json:"currency,omitempty"`
	ReferenceType   string       `json:"reference_type,omitempty"`
	ReferenceID     uint         `json:"reference_id,omitempty"`
	PaymentGateway  string       `json:"payment_gateway,omitempty"`
	PaymentReceived bool         `json:"payment_received"`
	PaymentID       string       `json:"payment_id,omitempty"`
	OrderID         string       `json:"order_id,omitempty"`
	Metadata        *types.JSONB `gorm:"type:jsonb" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	types.Timestamps
}

const (
	PAYMENT_REF_BOOKING     = "booking"
	PAYMENT_REF_SPONSORSHIP = "sponsorship_enquiry"
)
