package boot

import (
	"ems/src/db"
	"ems/src/lib"
	"ems/src/models"
	"ems/src/utils"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.AddOn{},
		&models.AttendeeAddOn{},
		&models.AttendeeAddOnItem{},
		&models.Booking{},
		&models.Attendee{},
		&models.Ticket{},
		&models.EventCheckIn{},
		&models.BulkTicketCoupon{},
		&models.Payment{},
		&models.SponsorshipTier{},
		&models.SponsorshipEnquiry{},
		&models.EventSponsor{},
		&models.Setting{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	// Sweep for ticket types whose auto-unpublish date has passed.
	id, err := lib.CreateCronJob(utils.UnpublishExpiredTicketTypes, 1*time.Hour)
	if err != nil {
		log.Printf("Error scheduling unpublish sweep: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled unpublish sweep: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
