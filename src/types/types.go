package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_DRAFT     BookingStatus = "draft"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "canceled"
)

type TicketStatus string

const (
	TICKET_CONFIRMED   TicketStatus = "confirmed"
	TICKET_TRANSFERRED TicketStatus = "transferred"
	TICKET_CANCELED    TicketStatus = "canceled"
)

type EnquiryStatus string

const (
	ENQUIRY_PENDING   EnquiryStatus = "pending"
	ENQUIRY_PAID      EnquiryStatus = "paid"
	ENQUIRY_WITHDRAWN EnquiryStatus = "withdrawn"
)

type EventMedium string

const (
	EVENT_IN_PERSON EventMedium = "in person"
	EVENT_ONLINE    EventMedium = "online"
)

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AttendeeAddOnItemBody struct {
	AddOnID uint   `json:"add_on" binding:"required"`
	Value   string `json:"value,omitempty"`
}

type BookingAttendeeBody struct {
	FullName     string                  `json:"full_name" binding:"required"`
	Email        string                  `json:"email" binding:"required,email"`
	TicketTypeID uint                    `json:"ticket_type" binding:"required"`
	CouponCode   string                  `json:"coupon_code,omitempty"`
	AddOns       []AttendeeAddOnItemBody `json:"add_ons,omitempty"`
}

type ProcessBookingRequestBody struct {
	EventID    uint                  `json:"event" binding:"required"`
	Attendees  []BookingAttendeeBody `json:"attendees" binding:"required,min=1,dive"`
	RedirectTo string                `json:"redirect_to,omitempty"`
}

type CreateEventRequestBody struct {
	Title            string `json:"title" binding:"required"`
	ShortDescription string `json:"short_description,omitempty"`
	About            string `json:"about,omitempty"`
	Venue            string `json:"venue,omitempty"`
	Medium           string `json:"medium,omitempty"`
	StartDate        string `json:"start_date" binding:"required,bookabledate" time_format:"2006-01-02"`
	EndDate          string `json:"end_date,omitempty" time_format:"2006-01-02"`
	PaymentGateway   string `json:"payment_gateway,omitempty"`
	Publish          bool   `json:"publish,omitempty"`
}

type CreateTicketTypeRequestBody struct {
	EventID             uint    `json:"event" binding:"required"`
	Title               string  `json:"title" binding:"required"`
	Price               float64 `json:"price"`
	Currency            string  `json:"currency" binding:"required"`
	MaxTicketsAvailable int     `json:"max_tickets_available,omitempty"`
	AutoUnpublishOn     string  `json:"auto_unpublish_on,omitempty" time_format:"2006-01-02"`
	Publish             bool    `json:"publish,omitempty"`
}

type TransferTicketRequestBody struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type ChangeAddOnPreferenceRequestBody struct {
	Value string `json:"value" binding:"required"`
}

type CreateCouponRequestBody struct {
	TicketTypeID           uint `json:"ticket_type" binding:"required"`
	NumberOfGrantedTickets int  `json:"number_of_granted_tickets" binding:"required,min=1"`
}

type CheckInRequestBody struct {
	Code     string `json:"code,omitempty"`
	TicketID uint   `json:"ticket_id,omitempty"`
	Track    string `json:"track,omitempty"`
}

type UpdateSettingsRequestBody struct {
	ApplyTaxOnBookings                 *bool    `json:"apply_tax_on_bookings,omitempty"`
	TaxPercentage                      *float64 `json:"tax_percentage,omitempty"`
	AllowTransferTicketBeforeDays      *int     `json:"allow_transfer_ticket_before_days,omitempty"`
	AllowAddOnsChangeBeforeDays        *int     `json:"allow_add_ons_change_before_days,omitempty"`
	AllowCancellationRequestBeforeDays *int     `json:"allow_cancellation_request_before_days,omitempty"`
}

type SponsorshipPayRequestBody struct {
	TierID     uint   `json:"tier" binding:"required"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type CreateSponsorshipEnquiryRequestBody struct {
	EventID     uint   `json:"event" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	CompanyLogo string `json:"company_logo,omitempty"`
	TierID      *uint  `json:"tier,omitempty"`
}
