package scopes

import (
	"time"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func Published(db *gorm.DB) *gorm.DB {
	return db.Where("is_published = ?", true)
}

func Upcoming(db *gorm.DB) *gorm.DB {
	return db.Where("start_date >= ?", time.Now().AddDate(0, 0, -1))
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "pending")
}
