package main

import (
	"ems/src/db"
	"ems/src/types"
	"ems/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings", func(ctx *gin.Context) {
			db := db.GetDb()
			settings, err := utils.GetSettings(db)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		PUT("/settings", func(ctx *gin.Context) {
			role := ctx.GetString("role")
			if role != "manager" {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only managers can change settings"})
				return
			}
			var body types.UpdateSettingsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			settings, err := utils.GetSettings(db)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.ApplyTaxOnBookings != nil {
				settings.ApplyTaxOnBookings = *body.ApplyTaxOnBookings
			}
			if body.TaxPercentage != nil {
				settings.TaxPercentage = *body.TaxPercentage
			}
			if body.AllowTransferTicketBeforeDays != nil {
				settings.AllowTransferTicketBeforeDays = *body.AllowTransferTicketBeforeDays
			}
			if body.AllowAddOnsChangeBeforeDays != nil {
				settings.AllowAddOnsChangeBeforeDays = *body.AllowAddOnsChangeBeforeDays
			}
			if body.AllowCancellationRequestBeforeDays != nil {
				settings.AllowCancellationRequestBeforeDays = *body.AllowCancellationRequestBeforeDays
			}
			if err := utils.SaveSettings(db, settings); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		})
	return g
}
