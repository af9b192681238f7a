package main

import (
	"ems/src/db"
	"ems/src/models"
	"ems/src/models/scopes"
	"ems/src/types"
	"ems/src/utils"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var events []models.Event
			db := db.GetDb()
			if err := db.
				Scopes(scopes.Published, scopes.Upcoming).
				Order("start_date asc").
				Limit(100).
				Find(&events).
				Error; err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(userId, &body)
			if err != nil {
				log.Printf("error creating event: %s\n", err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		GET("/events/:route/booking-data", func(ctx *gin.Context) {
			route := ctx.Params.ByName("route")
			data, err := utils.GetEventBookingData(route)
			if err != nil {
				log.Printf("Error assembling booking data for %q: %s\n", route, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data})
		}).
		GET("/events/:route/can-transfer", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("route")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			eventId := uint(atoi)
			db := db.GetDb()
			var event models.Event
			if err := db.
				Scopes(scopes.WithID(eventId)).
				First(&event).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			settings, err := utils.GetSettings(db)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			canTransfer := utils.CanTransferTicket(&event, settings, time.Now())
			ctx.JSON(http.StatusOK, gin.H{"can_transfer": canTransfer})
		}).
		POST("/events/:route/coupons", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("route")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			eventId := uint(atoi)
			var body types.CreateCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			coupon := models.BulkTicketCoupon{
				EventID:                eventId,
				TicketTypeID:           body.TicketTypeID,
				NumberOfGrantedTickets: body.NumberOfGrantedTickets,
			}
			err = db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Scopes(scopes.WithID(eventId)).First(&event).Error; err != nil {
					return err
				}
				if event.HostID != userId {
					return types.NewPermissionError("event [%d] does not belong to the current user", eventId)
				}
				var tt models.TicketType
				if err := tx.
					Where(&models.TicketType{ID: body.TicketTypeID, EventID: eventId}).
					First(&tt).
					Error; err != nil {
					return types.NewValidationError("ticket type [%d] does not belong to this event", body.TicketTypeID)
				}
				return tx.Create(&coupon).Error
			})
			if err != nil {
				log.Printf("error creating coupon: %s\n", err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": coupon.ID, "code": coupon.Code})
		}).
		POST("/events/:route/check-in", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("route")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			eventId := uint(atoi)
			var body types.CheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketId := body.TicketID
			if body.Code != "" {
				keyEnv := os.Getenv("API_QRC_SECRET")
				key, err := hex.DecodeString(keyEnv)
				if err != nil {
					log.Printf("Could not read key from string: %s\n", err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				message, err := utils.DecryptMessage(key, body.Code)
				if err != nil {
					log.Printf("Error decrypting message: %s\n", err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read the scanned code"})
					return
				}
				var rawData map[string]any
				if err := json.Unmarshal([]byte(*message), &rawData); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read the scanned code"})
					return
				}
				idKey, ok := rawData["ticketId"].(float64)
				if !ok {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read the scanned code"})
					return
				}
				ticketId = uint(idKey)
			}
			if ticketId == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "either a scanned code or a ticket_id is required"})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var checkIn models.EventCheckIn
			err = db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Scopes(scopes.WithID(eventId)).First(&event).Error; err != nil {
					return err
				}
				if event.HostID != userId {
					return types.NewPermissionError("event [%d] does not belong to the current user", eventId)
				}
				var ticket models.Ticket
				if err := tx.
					Where(&models.Ticket{ID: ticketId, EventID: eventId}).
					Where("status = ?", types.TICKET_CONFIRMED).
					First(&ticket).
					Error; err != nil {
					return types.NewValidationError("no confirmed ticket [%d] for this event", ticketId)
				}
				checkIn = models.EventCheckIn{TicketID: ticket.ID, Track: body.Track}
				return tx.Create(&checkIn).Error
			})
			if err != nil {
				log.Printf("error on check-in: %s\n", err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": checkIn.ID})
		})
	return g
}

func ticketTypeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/ticket-types", func(ctx *gin.Context) {
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id, err := utils.CreateTicketType(userId, &body)
			if err != nil {
				log.Printf("error creating ticket type: %s\n", err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PATCH("/ticket-types/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var tt models.TicketType
				if err := tx.
					Where(&models.TicketType{ID: params.ID}).
					Preload("Event").
					First(&tt).
					Error; err != nil {
					return err
				}
				if tt.Event.HostID != userId {
					return types.NewPermissionError("ticket type [%d] does not belong to the current user", params.ID)
				}
				return tx.
					Model(&models.TicketType{}).
					Where(&models.TicketType{ID: params.ID}).
					Update("is_published", true).
					Error
			})
			if err != nil {
				log.Printf("error publishing ticket type: %s\n", err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
