package utils

import (
	"ems/src/db"
	"ems/src/lib"
	"ems/src/lib/mailer"
	"ems/src/models"
	"fmt"
	"log"
	"os"
	"strings"
)

// SendBookingConfirmationEmail mails every attendee their ticket details
// once a booking is confirmed. Fire-and-forget: failures are logged by the
// mailer and never reach the booking flow.
func SendBookingConfirmationEmail(booking *models.Booking) {
	gdb := db.GetDb()
	var event models.Event
	if err := gdb.Where(&models.Event{ID: booking.EventID}).First(&event).Error; err != nil {
		log.Printf("Could not load event [%d] for confirmation email: %s\n", booking.EventID, err.Error())
		return
	}
	recipients := make([]string, 0, len(booking.Attendees))
	var lines []string
	for _, attendee := range booking.Attendees {
		recipients = append(recipients, attendee.Email)
		lines = append(lines, fmt.Sprintf("%s - ticket type [%d]", attendee.FullName, attendee.TicketTypeID))
	}
	body := fmt.Sprintf(
		"Your booking for %s is confirmed.\n\nTickets:\n%s\n\nTotal paid: %.2f %s\n",
		event.Title,
		strings.Join(lines, "\n"),
		booking.TotalAmount,
		booking.Currency,
	)
	mailer.Send(&lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "Events Team",
		To:       recipients,
		Subject:  fmt.Sprintf("Booking confirmed for %s", event.Title),
		Body:     body,
	})
}
