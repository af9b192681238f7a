package models

import (
	"ems/src/types"
	"strings"
)

// AddOn is an optional extra an event offers alongside tickets, e.g. a
// t-shirt with selectable sizes.
type AddOn struct {
	ID                uint    `gorm:"primarykey" json:"id"`
	EventID           uint    `json:"event,omitempty"`
	Title             string  `json:"title,omitempty"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency,omitempty"`
	UserSelectsOption bool    `json:"user_selects_option"`
	Options           string  `json:"-"`

	types.Timestamps
}

// OptionList splits the newline-separated options for display.
func (a *AddOn) OptionList() []string {
	if a.Options == "" {
		return nil
	}
	return strings.Split(a.Options, "\n")
}

// HasOption reports whether value is one of the configured options.
func (a *AddOn) HasOption(value string) bool {
	for _, opt := range a.OptionList() {
		if opt == value {
			return true
		}
	}
	return false
}

// AttendeeAddOn groups the add-on selections one attendee made.
type AttendeeAddOn struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	AttendeeName string `json:"attendee_name,omitempty"`

	Items []AttendeeAddOnItem `gorm:"foreignKey:AttendeeAddOnID" json:"items,omitempty"`

	types.Timestamps
}

type AttendeeAddOnItem struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	AttendeeAddOnID uint    `json:"-"`
	AddOnID         uint    `json:"add_on"`
	Value           string  `json:"value,omitempty"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency,omitempty"`

	AddOn AddOn `json:"add_on_details,omitempty"`

	types.Timestamps
}

// Total sums the unit prices of every selected add-on.
func (d *AttendeeAddOn) Total() float64 {
	var total float64
	for _, item := range d.Items {
		total += item.Price
	}
	return total
}

func (d *AttendeeAddOn) Count() int {
	return len(d.Items)
}
