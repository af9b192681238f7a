package main

import (
	"ems/src/types"
	"ems/src/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.ProcessBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.ProcessBooking(userId, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			url, err := utils.GetPaymentLinkForBooking(booking, body.RedirectTo)
			if err != nil {
				log.Printf("Error creating payment link for Booking [%d]: %s\n", booking.ID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the payment provider"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": booking.ID, "url": url})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.GetBookingForUser(userId, params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/:id/confirm", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			role := ctx.GetString("role")
			if role != "manager" {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			booking, confirmedNow, err := utils.ConfirmBooking(params.ID)
			if err != nil {
				var capErr *types.CapacityExceededError
				var valErr *types.ValidationError
				if errors.As(err, &capErr) || errors.As(err, &valErr) {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				// Never leave a paid booking silently unconfirmed.
				log.Printf("Booking [%d] confirmation failed: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not confirm the booking, please contact support"})
				return
			}
			if confirmedNow {
				go utils.SendBookingConfirmationEmail(booking)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
