package models

import (
	"ems/src/types"
)

type SponsorshipTier struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	EventID  uint    `json:"event,omitempty"`
	Title    string  `json:"title,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`

	types.Timestamps
}

type SponsorshipEnquiry struct {
	ID          uint                `gorm:"primarykey" json:"id"`
	UserID      uint                `json:"user_id,omitempty"`
	CompanyName string              `json:"company_name,omitempty"`
	CompanyLogo string              `json:"company_logo,omitempty"`
	EventID     uint                `json:"event,omitempty"`
	TierID      *uint               `json:"tier,omitempty"`
	Status      types.EnquiryStatus `gorm:"default:'pending'" json:"status,omitempty"`

	User  User             `json:"-"`
	Event Event            `json:"event_details,omitempty"`
	Tier  *SponsorshipTier `json:"tier_details,omitempty"`

	types.Timestamps
}

// EventSponsor is created once a sponsorship enquiry is paid.
type EventSponsor struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	CompanyName string `json:"company_name,omitempty"`
	CompanyLogo string `json:"company_logo,omitempty"`
	EventID     uint   `json:"event,omitempty"`
	TierID      *uint  `json:"tier,omitempty"`
	EnquiryID   uint   `json:"enquiry,omitempty"`

	types.Timestamps
}
