package utils

import (
	"context"
	"ems/src/db"
	"ems/src/lib"
	"ems/src/models"
	"ems/src/types"
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// MinorUnits converts a major-unit amount to the gateway's integer minor
// units. Totals come out of float arithmetic, so the value is rounded
// rather than truncated.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// RecordPayment books a pending payment row before the caller is sent off
// to the gateway.
func RecordPayment(tx *gorm.DB, userId uint, amount float64, currency string, referenceType string, referenceId uint, gateway string) (*models.Payment, error) {
	payment := models.Payment{
		UserID:         userId,
		Amount:         amount,
		Currency:       currency,
		ReferenceType:  referenceType,
		ReferenceID:    referenceId,
		PaymentGateway: gateway,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentLink creates a checkout session for a recorded payment and
// returns the redirect URL the caller follows to pay. The session id is
// stored as the payment's order identifier so the webhook can match it.
func GetPaymentLink(userId uint, amount float64, currency string, referenceType string, referenceId uint, title string, redirectTo string) (string, error) {
	gdb := db.GetDb()
	if redirectTo == "" {
		redirectTo = "/events"
	}
	var sessionURL string
	err := gdb.Transaction(func(tx *gorm.DB) error {
		payment, err := RecordPayment(tx, userId, amount, currency, referenceType, referenceId, "Stripe")
		if err != nil {
			return err
		}
		var user models.User
		if err := tx.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
			return err
		}
		successUrl := fmt.Sprintf("%s%s", os.Getenv("APP_HOST"), redirectTo)
		createParams := stripe.CheckoutSessionCreateParams{
			SuccessURL:    stripe.String(successUrl),
			UIMode:        stripe.String("hosted"),
			Mode:          stripe.String("payment"),
			CustomerEmail: stripe.String(user.Email),
			LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
				{
					PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
						Currency:   stripe.String(currency),
						UnitAmount: stripe.Int64(MinorUnits(amount)),
						ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
							Name: stripe.String(title),
						},
					},
					Quantity: stripe.Int64(1),
				},
			},
			Metadata: map[string]string{
				"payment":        payment.ID.String(),
				"reference_type": referenceType,
				"reference_id":   fmt.Sprint(referenceId),
			},
		}
		sc := lib.GetStripeClient()
		session, err := sc.V1CheckoutSessions.Create(context.Background(), &createParams)
		if err != nil {
			log.Printf("Error creating checkout session: %s\n", err.Error())
			return err
		}
		if err := tx.
			Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]any{
				"order_id": session.ID,
				"metadata": types.JSONB{"description": title, "session_url": session.URL},
			}).
			Error; err != nil {
			return err
		}
		sessionURL = session.URL
		return nil
	})
	if err != nil {
		return "", err
	}
	return sessionURL, nil
}

// GetPaymentLinkForBooking prices the link off the booking's computed
// total.
func GetPaymentLinkForBooking(booking *models.Booking, redirectTo string) (string, error) {
	gdb := db.GetDb()
	var event models.Event
	if err := gdb.Where(&models.Event{ID: booking.EventID}).First(&event).Error; err != nil {
		return "", err
	}
	if redirectTo == "" {
		redirectTo = fmt.Sprintf("/dashboard/bookings/%d?success=true", booking.ID)
	}
	title := fmt.Sprintf("Payment for %s", event.Title)
	return GetPaymentLink(booking.UserID, booking.TotalAmount, booking.Currency, models.PAYMENT_REF_BOOKING, booking.ID, title, redirectTo)
}

// GetPaymentLinkForSponsorship pins the chosen tier on the enquiry and
// returns a link priced off the tier.
func GetPaymentLinkForSponsorship(userId uint, enquiryId uint, tierId uint, redirectTo string) (string, error) {
	gdb := db.GetDb()
	var enquiry models.SponsorshipEnquiry
	if err := gdb.Where(&models.SponsorshipEnquiry{ID: enquiryId}).First(&enquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.NewValidationError("sponsorship enquiry [%d] does not exist", enquiryId)
		}
		return "", err
	}
	if enquiry.UserID != userId {
		return "", types.NewPermissionError("sponsorship enquiry [%d] does not belong to the current user", enquiryId)
	}
	var tier models.SponsorshipTier
	if err := gdb.Where(&models.SponsorshipTier{ID: tierId, EventID: enquiry.EventID}).First(&tier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.NewValidationError("sponsorship tier [%d] is not offered for this event", tierId)
		}
		return "", err
	}
	if err := gdb.
		Model(&models.SponsorshipEnquiry{}).
		Where(&models.SponsorshipEnquiry{ID: enquiryId}).
		Update("tier_id", tierId).
		Error; err != nil {
		return "", err
	}
	var event models.Event
	if err := gdb.Where(&models.Event{ID: enquiry.EventID}).First(&event).Error; err != nil {
		return "", err
	}
	title := fmt.Sprintf("Payment for %s Sponsorship at %s", tier.Title, event.Title)
	return GetPaymentLink(userId, tier.Price, tier.Currency, models.PAYMENT_REF_SPONSORSHIP, enquiryId, title, redirectTo)
}

// MarkPaymentReceived flips the payment row once the gateway reports the
// charge went through.
func MarkPaymentReceived(tx *gorm.DB, paymentId string, gatewayPaymentId string) error {
	return tx.
		Model(&models.Payment{}).
		Where("id = ?", paymentId).
		Updates(map[string]any{
			"payment_received": true,
			"payment_id":       gatewayPaymentId,
		}).
		Error
}

// OnSponsorshipPaymentAuthorized creates the event sponsor and marks the
// enquiry paid.
func OnSponsorshipPaymentAuthorized(enquiryId uint) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		var enquiry models.SponsorshipEnquiry
		if err := tx.Where(&models.SponsorshipEnquiry{ID: enquiryId}).First(&enquiry).Error; err != nil {
			return err
		}
		if enquiry.Status == types.ENQUIRY_PAID {
			return nil
		}
		sponsor := models.EventSponsor{
			CompanyName: enquiry.CompanyName,
			CompanyLogo: enquiry.CompanyLogo,
			EventID:     enquiry.EventID,
			TierID:      enquiry.TierID,
			EnquiryID:   enquiry.ID,
		}
		if err := tx.Create(&sponsor).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.SponsorshipEnquiry{}).
			Where(&models.SponsorshipEnquiry{ID: enquiryId}).
			Update("status", types.ENQUIRY_PAID).
			Error
	})
}
