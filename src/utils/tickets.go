package utils

import (
	"ems/src/db"
	"ems/src/models"
	"ems/src/types"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// CanTransferTicket reports whether the transfer window is still open for
// an event: days until the event start must be at least the configured
// cutoff.
func CanTransferTicket(event *models.Event, settings *models.Setting, now time.Time) bool {
	return event.DaysUntilStart(now) >= settings.AllowTransferTicketBeforeDays
}

// CanChangeAddOns is the same window check for add-on preference changes.
func CanChangeAddOns(event *models.Event, settings *models.Setting, now time.Time) bool {
	return event.DaysUntilStart(now) >= settings.AllowAddOnsChangeBeforeDays
}

// TransferTicket reassigns a confirmed ticket to a new attendee. Only the
// attendee identity changes; every other field is left untouched.
func TransferTicket(userId uint, ticketId uint, newName string, newEmail string) (*models.Ticket, error) {
	gdb := db.GetDb()
	settings, err := GetSettings(gdb)
	if err != nil {
		return nil, err
	}
	var ticket models.Ticket
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.Ticket{ID: ticketId}).
			Preload("Event").
			Preload("Booking").
			First(&ticket).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("ticket [%d] does not exist", ticketId)
			}
			return err
		}
		if ticket.Booking.UserID != userId {
			return types.NewPermissionError("ticket [%d] does not belong to the current user", ticketId)
		}
		if ticket.Status != types.TICKET_CONFIRMED {
			return types.NewValidationError("ticket [%d] is not transferable from status %q", ticketId, ticket.Status)
		}
		if !CanTransferTicket(&ticket.Event, settings, time.Now()) {
			return types.NewValidationError("tickets can only be transferred up to %d days before the event", settings.AllowTransferTicketBeforeDays)
		}
		if err := tx.
			Model(&models.Ticket{}).
			Where(&models.Ticket{ID: ticketId}).
			Updates(map[string]any{
				"attendee_name": newName,
				"email":         newEmail,
			}).
			Error; err != nil {
			return err
		}
		ticket.AttendeeName = newName
		ticket.Email = newEmail
		return nil
	})
	if err != nil {
		log.Printf("TransferTicket failed for Ticket [%d]: %s\n", ticketId, err.Error())
		return nil, err
	}
	return &ticket, nil
}

// ChangeAddOnPreference updates the chosen value on one add-on selection,
// e.g. a t-shirt size, while the change window is open.
func ChangeAddOnPreference(userId uint, itemId uint, newValue string) error {
	gdb := db.GetDb()
	settings, err := GetSettings(gdb)
	if err != nil {
		return err
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var item models.AttendeeAddOnItem
		if err := tx.
			Where(&models.AttendeeAddOnItem{ID: itemId}).
			Preload("AddOn").
			First(&item).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("add-on selection [%d] does not exist", itemId)
			}
			return err
		}
		var attendee models.Attendee
		if err := tx.
			Where(&models.Attendee{AddOnID: &item.AttendeeAddOnID}).
			Preload("TicketType").
			Preload("TicketType.Event").
			First(&attendee).
			Error; err != nil {
			return err
		}
		var booking models.Booking
		if err := tx.
			Where(&models.Booking{ID: attendee.BookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.UserID != userId {
			return types.NewPermissionError("add-on selection [%d] does not belong to the current user", itemId)
		}
		if !CanChangeAddOns(&attendee.TicketType.Event, settings, time.Now()) {
			return types.NewValidationError("add-on preferences can only be changed up to %d days before the event", settings.AllowAddOnsChangeBeforeDays)
		}
		if item.AddOn.UserSelectsOption && !item.AddOn.HasOption(newValue) {
			return types.NewValidationError("%q is not an option for add-on %q", newValue, item.AddOn.Title)
		}
		return tx.
			Model(&models.AttendeeAddOnItem{}).
			Where(&models.AttendeeAddOnItem{ID: itemId}).
			Update("value", newValue).
			Error
	})
	if err != nil {
		log.Printf("ChangeAddOnPreference failed for item [%d]: %s\n", itemId, err.Error())
	}
	return err
}
