package models

import (
	"ems/src/types"
	"time"
)

type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role,omitempty"`
	UID           string    `json:"uid,omitempty"`
	EmailVerified bool      `json:"email_verified,omitempty"`
	VerifiedAt    time.Time `json:"verified_at,omitempty"`
	LastActive    time.Time `json:"last_active,omitempty"`

	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`

	types.Timestamps
}
