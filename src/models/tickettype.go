package models

import (
	"ems/src/types"
	"time"

	"gorm.io/gorm"
)

// UnlimitedTickets is the Remaining sentinel for types without a cap.
const UnlimitedTickets int64 = -1

type TicketType struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	EventID             uint       `json:"event,omitempty"`
	Title               string     `json:"title,omitempty"`
	Price               float64    `json:"price"`
	Currency            string     `json:"currency,omitempty"`
	IsPublished         bool       `json:"is_published"`
	MaxTicketsAvailable int        `json:"max_tickets_available,omitempty"`
	AutoUnpublishOn     *time.Time `json:"auto_unpublish_on,omitempty"`

	Event Event `json:"event_details,omitempty"`

	types.Timestamps
}

// TicketsSold is a live count of confirmed tickets for this type. It is
// recomputed on every call so it always reflects the latest committed state.
func (t *TicketType) TicketsSold(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.
		Model(&Ticket{}).
		Where(&Ticket{TicketTypeID: t.ID}).
		Where("status = ?", types.TICKET_CONFIRMED).
		Count(&count).
		Error
	return count, err
}

// Remaining reports how many tickets of this type can still be sold, or
// UnlimitedTickets when no cap is configured.
func (t *TicketType) Remaining(tx *gorm.DB) (int64, error) {
	if t.MaxTicketsAvailable <= 0 {
		return UnlimitedTickets, nil
	}
	sold, err := t.TicketsSold(tx)
	if err != nil {
		return 0, err
	}
	return int64(t.MaxTicketsAvailable) - sold, nil
}

func (t *TicketType) AreTicketsAvailable(tx *gorm.DB, n int) (bool, error) {
	remaining, err := t.Remaining(tx)
	if err != nil {
		return false, err
	}
	if remaining == UnlimitedTickets {
		return true, nil
	}
	return remaining >= int64(n), nil
}
