package utils

import (
	"ems/src/db"
	"ems/src/models"
	"ems/src/types"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupAttendeesByType counts how many tickets of each type a pending
// booking asks for.
func GroupAttendeesByType(attendees []models.Attendee) map[uint]int {
	counts := make(map[uint]int, len(attendees))
	for _, attendee := range attendees {
		counts[attendee.TicketTypeID]++
	}
	return counts
}

// CheckTicketTypeCapacity decides whether a single ticket type can cover
// the requested count. remaining carries the UnlimitedTickets sentinel for
// uncapped types.
func CheckTicketTypeCapacity(tt *models.TicketType, remaining int64, requested int) error {
	if !tt.IsPublished {
		return types.NewValidationError("ticket type %q is no longer available", tt.Title)
	}
	if remaining == models.UnlimitedTickets {
		return nil
	}
	if int64(requested) > remaining {
		return &types.CapacityExceededError{
			TicketTypeTitle: tt.Title,
			Requested:       requested,
			Remaining:       remaining,
		}
	}
	return nil
}

// ValidateTicketCapacity runs the capacity guard for every ticket type a
// booking references. Each type row is locked FOR UPDATE so that two
// bookings racing for the last ticket serialize on the row instead of both
// reading the same remaining count. Returns the locked types keyed by id.
func ValidateTicketCapacity(tx *gorm.DB, attendees []models.Attendee) (map[uint]*models.TicketType, error) {
	counts := GroupAttendeesByType(attendees)
	loaded := make(map[uint]*models.TicketType, len(counts))
	for typeId, requested := range counts {
		var tt models.TicketType
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.TicketType{ID: typeId}).
			First(&tt).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.NewValidationError("ticket type [%d] does not exist", typeId)
			}
			return nil, err
		}
		remaining, err := tt.Remaining(tx)
		if err != nil {
			return nil, err
		}
		if err := CheckTicketTypeCapacity(&tt, remaining, requested); err != nil {
			return nil, err
		}
		loaded[typeId] = &tt
	}
	return loaded, nil
}

// ProcessBooking turns an attendee list into a draft booking. Capacity is
// checked first so a rejected booking never shows a spurious total, then
// pricing is snapshotted from the referenced ticket types, then the
// booking currency is assigned and the totals computed.
func ProcessBooking(userId uint, body *types.ProcessBookingRequestBody) (*models.Booking, error) {
	gdb := db.GetDb()
	settings, err := GetSettings(gdb)
	if err != nil {
		return nil, err
	}
	booking := models.Booking{
		UserID:  userId,
		EventID: body.EventID,
		Status:  types.BOOKING_DRAFT,
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: body.EventID, IsPublished: true}).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("event [%d] is not open for booking", body.EventID)
			}
			return err
		}
		for _, a := range body.Attendees {
			attendee := models.Attendee{
				FullName:     a.FullName,
				Email:        a.Email,
				TicketTypeID: a.TicketTypeID,
				CouponCode:   a.CouponCode,
			}
			if a.CouponCode != "" {
				if err := validateCoupon(tx, &event, &attendee); err != nil {
					return err
				}
			}
			if len(a.AddOns) > 0 {
				doc, err := createAddOnDoc(tx, &event, a.FullName, a.AddOns)
				if err != nil {
					return err
				}
				attendee.AddOnID = &doc.ID
				attendee.AddOn = doc
			}
			booking.Attendees = append(booking.Attendees, attendee)
		}

		ticketTypes, err := ValidateTicketCapacity(tx, booking.Attendees)
		if err != nil {
			return err
		}
		for i := range booking.Attendees {
			attendee := &booking.Attendees[i]
			attendee.BackfillPricing(ticketTypes[attendee.TicketTypeID])
		}
		if err := booking.SetCurrency(); err != nil {
			return err
		}
		booking.SetTotals(settings)

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("ProcessBooking failed: %s\n", err.Error())
		return nil, err
	}
	return &booking, nil
}

func validateCoupon(tx *gorm.DB, event *models.Event, attendee *models.Attendee) error {
	var coupon models.BulkTicketCoupon
	if err := tx.
		Where(&models.BulkTicketCoupon{Code: attendee.CouponCode, EventID: event.ID}).
		First(&coupon).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewValidationError("coupon %q is not valid for this event", attendee.CouponCode)
		}
		return err
	}
	if coupon.TicketTypeID != attendee.TicketTypeID {
		return types.NewValidationError("coupon %q does not cover the selected ticket type", attendee.CouponCode)
	}
	usedUp, err := coupon.IsUsedUp(tx)
	if err != nil {
		return err
	}
	if usedUp {
		return types.NewValidationError("coupon %q has no tickets left", attendee.CouponCode)
	}
	return nil
}

func createAddOnDoc(tx *gorm.DB, event *models.Event, attendeeName string, items []types.AttendeeAddOnItemBody) (*models.AttendeeAddOn, error) {
	doc := models.AttendeeAddOn{AttendeeName: attendeeName}
	for _, item := range items {
		var addOn models.AddOn
		if err := tx.
			Where(&models.AddOn{ID: item.AddOnID, EventID: event.ID}).
			First(&addOn).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.NewValidationError("add-on [%d] does not belong to this event", item.AddOnID)
			}
			return nil, err
		}
		if addOn.UserSelectsOption && !addOn.HasOption(item.Value) {
			return nil, types.NewValidationError("%q is not an option for add-on %q", item.Value, addOn.Title)
		}
		doc.Items = append(doc.Items, models.AttendeeAddOnItem{
			AddOnID:  addOn.ID,
			Value:    item.Value,
			Price:    addOn.Price,
			Currency: addOn.Currency,
		})
	}
	if err := tx.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ConfirmBooking is the irreversible submit transition. The capacity guard
// re-runs under row locks and one ticket is generated per attendee, all
// inside a single transaction so a mid-loop failure rolls everything back.
// The second return reports whether this call performed the transition;
// a repeat call on a confirmed booking returns false so callers do not
// redo one-shot side effects like the confirmation email.
func ConfirmBooking(bookingId uint) (*models.Booking, bool, error) {
	gdb := db.GetDb()
	var booking models.Booking
	confirmedNow := false
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
			Where(&models.Booking{ID: bookingId}).
			Preload("Attendees").
			Preload("Attendees.AddOn").
			Preload("Attendees.AddOn.Items").
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("booking [%d] does not exist", bookingId)
			}
			return err
		}
		if booking.Status == types.BOOKING_CONFIRMED {
			// Submit is idempotent for an already confirmed booking.
			return nil
		}
		if booking.Status != types.BOOKING_DRAFT {
			return types.NewValidationError("booking [%d] cannot be confirmed from status %q", bookingId, booking.Status)
		}
		if _, err := ValidateTicketCapacity(tx, booking.Attendees); err != nil {
			return err
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Update("status", types.BOOKING_CONFIRMED).
			Error; err != nil {
			return err
		}
		booking.Status = types.BOOKING_CONFIRMED
		confirmedNow = true
		return generateTickets(tx, &booking)
	})
	if err != nil {
		log.Printf("ConfirmBooking failed for Booking [%d]: %s\n", bookingId, err.Error())
		return nil, false, err
	}
	return &booking, confirmedNow, nil
}

func generateTickets(tx *gorm.DB, booking *models.Booking) error {
	for _, attendee := range booking.Attendees {
		if attendee.CouponCode != "" {
			var coupon models.BulkTicketCoupon
			if err := tx.
				Where(&models.BulkTicketCoupon{Code: attendee.CouponCode}).
				First(&coupon).
				Error; err != nil {
				return err
			}
			usedUp, err := coupon.IsUsedUp(tx)
			if err != nil {
				return err
			}
			if usedUp {
				return types.NewValidationError("coupon %q has no tickets left", attendee.CouponCode)
			}
		}
		ticket := models.Ticket{
			EventID:      booking.EventID,
			BookingID:    booking.ID,
			TicketTypeID: attendee.TicketTypeID,
			AttendeeName: attendee.FullName,
			Email:        attendee.Email,
			Status:       types.TICKET_CONFIRMED,
			AddOnID:      attendee.AddOnID,
			CouponUsed:   attendee.CouponCode,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetBookingForUser loads a booking with its attendees after checking the
// caller owns it.
func GetBookingForUser(userId uint, bookingId uint) (*models.Booking, error) {
	gdb := db.GetDb()
	var booking models.Booking
	if err := gdb.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: bookingId}).
		Preload("Event").
		Preload("Attendees").
		Preload("Attendees.TicketType").
		Preload("Attendees.AddOn").
		Preload("Attendees.AddOn.Items").
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewValidationError("booking [%d] does not exist", bookingId)
		}
		return nil, err
	}
	if booking.UserID != userId {
		return nil, types.NewPermissionError("booking [%d] does not belong to the current user", bookingId)
	}
	return &booking, nil
}
