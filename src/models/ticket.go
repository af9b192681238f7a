package models

import (
	"ems/src/types"
)

// Ticket is an individually issued admission record. One is generated per
// attendee when the parent booking is confirmed.
type Ticket struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	EventID      uint               `json:"event_id,omitempty"`
	BookingID    uint               `json:"booking_id,omitempty"`
	TicketTypeID uint               `json:"ticket_type"`
	AttendeeName string             `json:"attendee_name,omitempty"`
	Email        string             `json:"email,omitempty"`
	Status       types.TicketStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	AddOnID      *uint              `json:"add_ons,omitempty"`
	CouponUsed   string             `json:"coupon_used,omitempty"`
	CodeAssetKey string             `json:"-"`

	Event      Event          `json:"event,omitempty"`
	Booking    Booking        `json:"-"`
	TicketType TicketType     `json:"ticket_type_details,omitempty"`
	AddOn      *AttendeeAddOn `gorm:"foreignKey:AddOnID" json:"add_on_details,omitempty"`

	types.Timestamps
}

type EventCheckIn struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	TicketID uint   `json:"ticket_id"`
	Track    string `json:"track,omitempty"`

	Ticket Ticket `json:"ticket,omitempty"`

	types.Timestamps
}
