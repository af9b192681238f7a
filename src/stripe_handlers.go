package main

import (
	"ems/src/db"
	"ems/src/models"
	"ems/src/utils"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			err := json.Unmarshal(event.Data.Raw, &cs)
			if err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			log.Printf("[CheckoutSession] ID: %s %s\n", cs.ID, cs.Status)
			md := cs.Metadata
			paymentId := md["payment"]
			referenceType := md["reference_type"]
			referenceId := md["reference_id"]
			if paymentId == "" || referenceType == "" || referenceId == "" {
				log.Printf("[%s] Session carries no payment metadata, ignoring\n", cs.ID)
				break
			}
			gatewayPaymentId := ""
			if cs.PaymentIntent != nil {
				gatewayPaymentId = cs.PaymentIntent.ID
			}
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				return utils.MarkPaymentReceived(tx, paymentId, gatewayPaymentId)
			})
			if err != nil {
				log.Printf("Error updating Payment %s: %s\n", paymentId, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			atoi, err := strconv.Atoi(referenceId)
			if err != nil {
				log.Printf("Could not parse reference id %q for payment %s: %s\n", referenceId, paymentId, err.Error())
				break
			}
			refId := uint(atoi)
			switch referenceType {
			case models.PAYMENT_REF_BOOKING:
				booking, confirmedNow, err := utils.ConfirmBooking(refId)
				if err != nil {
					log.Printf("Error confirming booking %d after payment %s: %s\n", refId, paymentId, err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
				// Gateways retry webhooks; only the call that performed the
				// transition mails the attendees.
				if confirmedNow {
					go utils.SendBookingConfirmationEmail(booking)
				}
			case models.PAYMENT_REF_SPONSORSHIP:
				if err := utils.OnSponsorshipPaymentAuthorized(refId); err != nil {
					log.Printf("Error finalizing sponsorship enquiry %d after payment %s: %s\n", refId, paymentId, err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
			default:
				log.Printf("[%s] Unknown reference type %q\n", cs.ID, referenceType)
			}
		}
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}
