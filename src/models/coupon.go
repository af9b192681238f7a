package models

import (
	"crypto/rand"
	"ems/src/types"
	"encoding/hex"

	"gorm.io/gorm"
)

// BulkTicketCoupon grants a fixed number of free tickets of one type,
// typically handed to community partners.
type BulkTicketCoupon struct {
	ID                     uint   `gorm:"primarykey" json:"id"`
	EventID                uint   `json:"event,omitempty"`
	TicketTypeID           uint   `json:"ticket_type"`
	Code                   string `gorm:"uniqueIndex" json:"code,omitempty"`
	NumberOfGrantedTickets int    `json:"number_of_granted_tickets"`

	types.Timestamps
}

// BeforeCreate assigns a short random code unless one was supplied.
func (c *BulkTicketCoupon) BeforeCreate(tx *gorm.DB) error {
	if c.Code == "" {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		c.Code = hex.EncodeToString(buf)
	}
	return nil
}

// NumberOfClaimedTickets is a live count of confirmed tickets issued
// against this coupon.
func (c *BulkTicketCoupon) NumberOfClaimedTickets(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.
		Model(&Ticket{}).
		Where(&Ticket{CouponUsed: c.Code}).
		Where("status = ?", types.TICKET_CONFIRMED).
		Count(&count).
		Error
	return count, err
}

func (c *BulkTicketCoupon) IsUsedUp(tx *gorm.DB) (bool, error) {
	claimed, err := c.NumberOfClaimedTickets(tx)
	if err != nil {
		return false, err
	}
	return claimed >= int64(c.NumberOfGrantedTickets), nil
}
