package main

import (
	"ems/src/db"
	"ems/src/models"
	"ems/src/models/scopes"
	"ems/src/types"
	"ems/src/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func sponsorshipHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/sponsorships", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var enquiries []models.SponsorshipEnquiry
			db := db.GetDb()
			query := db.Where(&models.SponsorshipEnquiry{UserID: userId})
			if ctx.Query("pending") == "true" {
				query = query.Scopes(scopes.WithPendingStatus)
			}
			if err := query.
				Preload("Event").
				Preload("Tier").
				Order("created_at desc").
				Find(&enquiries).
				Error; err != nil {
				log.Printf("Error retrieving SponsorshipEnquiries: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": enquiries, "count": len(enquiries)})
		}).
		POST("/sponsorships", func(ctx *gin.Context) {
			var body types.CreateSponsorshipEnquiryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var event models.Event
			if err := db.
				Where(&models.Event{ID: body.EventID, IsPublished: true}).
				First(&event).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "event is not open for sponsorship"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.TierID != nil {
				var tier models.SponsorshipTier
				if err := db.
					Where(&models.SponsorshipTier{ID: *body.TierID, EventID: event.ID}).
					First(&tier).
					Error; err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "sponsorship tier is not offered for this event"})
					return
				}
			}
			enquiry := models.SponsorshipEnquiry{
				UserID:      userId,
				CompanyName: body.CompanyName,
				CompanyLogo: body.CompanyLogo,
				EventID:     event.ID,
				TierID:      body.TierID,
				Status:      types.ENQUIRY_PENDING,
			}
			if err := db.Create(&enquiry).Error; err != nil {
				log.Printf("Error creating SponsorshipEnquiry: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": enquiry})
		}).
		GET("/sponsorships/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var enquiry models.SponsorshipEnquiry
			db := db.GetDb()
			if err := db.
				Where(&models.SponsorshipEnquiry{ID: params.ID}).
				Preload("Event").
				Preload("Tier").
				First(&enquiry).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if enquiry.UserID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "sponsorship enquiry does not belong to the current user"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": enquiry})
		}).
		PUT("/sponsorships/:id/withdraw", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var enquiry models.SponsorshipEnquiry
				if err := tx.
					Where(&models.SponsorshipEnquiry{ID: params.ID}).
					First(&enquiry).
					Error; err != nil {
					return err
				}
				if enquiry.UserID != userId {
					return types.NewPermissionError("sponsorship enquiry [%d] does not belong to the current user", params.ID)
				}
				if enquiry.Status == types.ENQUIRY_PAID {
					return types.NewValidationError("a paid sponsorship enquiry can no longer be withdrawn")
				}
				return tx.
					Model(&models.SponsorshipEnquiry{}).
					Where(&models.SponsorshipEnquiry{ID: params.ID}).
					Update("status", types.ENQUIRY_WITHDRAWN).
					Error
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/sponsorships/:id/pay", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.SponsorshipPayRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			url, err := utils.GetPaymentLinkForSponsorship(userId, params.ID, body.TierID, body.RedirectTo)
			if err != nil {
				var verr *types.ValidationError
				var perr *types.PermissionError
				if errors.As(err, &verr) || errors.As(err, &perr) {
					abortWithError(ctx, err)
					return
				}
				log.Printf("Error creating payment link for sponsorship [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the payment gateway"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		})
	return g
}
