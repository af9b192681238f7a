package models

import (
	"ems/src/types"
	"time"

	"github.com/gosimple/slug"
)

type Event struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Title            string            `json:"title,omitempty"`
	Route            string            `gorm:"uniqueIndex" json:"route,omitempty"`
	ShortDescription string            `json:"short_description,omitempty"`
	About            *string           `json:"about,omitempty"`
	Venue            string            `json:"venue,omitempty"`
	Medium           types.EventMedium `gorm:"default:'in person'" json:"medium,omitempty"`
	StartDate        time.Time         `json:"start_date,omitempty"`
	EndDate          *time.Time        `json:"end_date,omitempty"`
	IsPublished      bool              `json:"is_published"`
	PaymentGateway   string            `json:"payment_gateway,omitempty"`
	HostID           uint              `json:"host,omitempty"`

	Host        User         `gorm:"foreignKey:HostID" json:"-"`
	TicketTypes []TicketType `gorm:"foreignKey:EventID" json:"ticket_types,omitempty"`
	AddOns      []AddOn      `gorm:"foreignKey:EventID" json:"add_ons,omitempty"`

	types.Timestamps
}

// EnsureRoute derives a URL route from the title on first publish. An
// explicitly set route is never overwritten.
func (e *Event) EnsureRoute() {
	if e.IsPublished && e.Route == "" {
		e.Route = slug.Make(e.Title)
	}
}

// DaysUntilStart counts whole days between now and the event start date.
func (e *Event) DaysUntilStart(now time.Time) int {
	return int(e.StartDate.Sub(now).Hours() / 24)
}
