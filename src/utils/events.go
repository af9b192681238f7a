package utils

import (
	"context"
	"ems/src/config"
	"ems/src/db"
	"ems/src/models"
	"ems/src/types"
	"encoding/json"
	"errors"
	"log"
	"time"

	"ems/src/lib"

	"gorm.io/gorm"
)

const bookingDataCacheTTL = 2 * time.Minute

// EventBookingData is what the booking form needs: sellable ticket types
// and the event's add-ons.
type EventBookingData struct {
	Event                *models.Event       `json:"event"`
	AvailableTicketTypes []models.TicketType `json:"available_ticket_types"`
	AvailableAddOns      []AddOnData         `json:"available_add_ons"`
}

type AddOnData struct {
	ID                uint     `json:"id"`
	Title             string   `json:"title"`
	Price             float64  `json:"price"`
	Currency          string   `json:"currency"`
	UserSelectsOption bool     `json:"user_selects_option"`
	Options           []string `json:"options,omitempty"`
}

// GetEventBookingData resolves an event by route and assembles the booking
// form payload. Results are cached briefly in redis since the page is hit
// far more often than inventory changes.
func GetEventBookingData(route string) (*EventBookingData, error) {
	cacheKey := "booking_data:" + route
	rd := lib.GetRedisClient()
	if rd != nil {
		if cached, err := rd.Get(context.Background(), cacheKey).Result(); err == nil && cached != "" {
			var data EventBookingData
			if err := json.Unmarshal([]byte(cached), &data); err == nil {
				return &data, nil
			}
		}
	}

	gdb := db.GetDb()
	var event models.Event
	if err := gdb.
		Where(&models.Event{Route: route, IsPublished: true}).
		First(&event).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewValidationError("no published event with route %q", route)
		}
		return nil, err
	}

	data := EventBookingData{Event: &event}
	var publishedTypes []models.TicketType
	if err := gdb.
		Where(&models.TicketType{EventID: event.ID, IsPublished: true}).
		Order("price asc").
		Find(&publishedTypes).
		Error; err != nil {
		return nil, err
	}
	for _, tt := range publishedTypes {
		available, err := tt.AreTicketsAvailable(gdb, 1)
		if err != nil {
			return nil, err
		}
		if available {
			data.AvailableTicketTypes = append(data.AvailableTicketTypes, tt)
		}
	}

	var addOns []models.AddOn
	if err := gdb.
		Where(&models.AddOn{EventID: event.ID}).
		Find(&addOns).
		Error; err != nil {
		return nil, err
	}
	for _, addOn := range addOns {
		entry := AddOnData{
			ID:                addOn.ID,
			Title:             addOn.Title,
			Price:             addOn.Price,
			Currency:          addOn.Currency,
			UserSelectsOption: addOn.UserSelectsOption,
		}
		if addOn.UserSelectsOption {
			entry.Options = addOn.OptionList()
		}
		data.AvailableAddOns = append(data.AvailableAddOns, entry)
	}

	if rd != nil {
		if body, err := json.Marshal(&data); err == nil {
			rd.SetEx(context.Background(), cacheKey, string(body), bookingDataCacheTTL)
		}
	}
	return &data, nil
}

// CreateNewEvent inserts a draft event, deriving the route when publishing
// right away.
func CreateNewEvent(hostId uint, params *types.CreateEventRequestBody) (uint, error) {
	startDate, err := time.Parse(config.DATE_PARSE_FORMAT, params.StartDate)
	if err != nil {
		log.Printf("Error parsing start_date: %s\n", err.Error())
		return 0, types.NewValidationError("start_date must be formatted as %s", config.DATE_PARSE_FORMAT)
	}
	event := models.Event{
		Title:            params.Title,
		ShortDescription: params.ShortDescription,
		Venue:            params.Venue,
		StartDate:        startDate,
		PaymentGateway:   params.PaymentGateway,
		HostID:           hostId,
		IsPublished:      params.Publish,
	}
	if params.About != "" {
		event.About = &params.About
	}
	if params.Medium != "" {
		event.Medium = types.EventMedium(params.Medium)
	}
	if params.EndDate != "" {
		endDate, err := time.Parse(config.DATE_PARSE_FORMAT, params.EndDate)
		if err != nil {
			return 0, types.NewValidationError("end_date must be formatted as %s", config.DATE_PARSE_FORMAT)
		}
		if endDate.Before(startDate) {
			return 0, types.NewValidationError("end_date cannot be before start_date")
		}
		event.EndDate = &endDate
	}
	event.EnsureRoute()

	gdb := db.GetDb()
	if err := gdb.Create(&event).Error; err != nil {
		return 0, err
	}
	return event.ID, nil
}

// CreateTicketType inserts a sellable category for an event the caller
// hosts.
func CreateTicketType(hostId uint, params *types.CreateTicketTypeRequestBody) (uint, error) {
	gdb := db.GetDb()
	tt := models.TicketType{
		EventID:             params.EventID,
		Title:               params.Title,
		Price:               params.Price,
		Currency:            params.Currency,
		MaxTicketsAvailable: params.MaxTicketsAvailable,
		IsPublished:         params.Publish,
	}
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: params.EventID}).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("event [%d] does not exist", params.EventID)
			}
			return err
		}
		if event.HostID != hostId {
			return types.NewPermissionError("event [%d] does not belong to the current user", params.EventID)
		}
		if params.AutoUnpublishOn != "" {
			unpublishOn, err := time.Parse(config.DATE_PARSE_FORMAT, params.AutoUnpublishOn)
			if err != nil {
				return types.NewValidationError("auto_unpublish_on must be formatted as %s", config.DATE_PARSE_FORMAT)
			}
			tt.AutoUnpublishOn = &unpublishOn
		}
		return tx.Create(&tt).Error
	})
	if err != nil {
		return 0, err
	}
	return tt.ID, nil
}

// UnpublishExpiredTicketTypes is the periodic sweep taking ticket types
// off sale once their auto-unpublish date has passed.
func UnpublishExpiredTicketTypes() {
	gdb := db.GetDb()
	result := gdb.
		Model(&models.TicketType{}).
		Where("is_published = ?", true).
		Where("auto_unpublish_on IS NOT NULL AND auto_unpublish_on < ?", time.Now()).
		Update("is_published", false)
	if result.Error != nil {
		log.Printf("Error unpublishing expired ticket types: %s\n", result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Unpublished %d expired ticket types\n", result.RowsAffected)
	}
}
