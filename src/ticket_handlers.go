package main

import (
	"context"
	"ems/src/db"
	"ems/src/lib"
	"ems/src/models"
	"ems/src/types"
	"ems/src/utils"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	awslib "ems/src/lib/aws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var tickets []models.Ticket
			db := db.GetDb()
			if err := db.
				Joins("JOIN bookings ON bookings.id = tickets.booking_id").
				Where("bookings.user_id = ?", userId).
				Preload("Event").
				Preload("TicketType").
				Order("tickets.created_at desc").
				Find(&tickets).
				Error; err != nil {
				log.Printf("Error retrieving Tickets: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var ticket models.Ticket
			db := db.GetDb()
			if err := db.
				Where(&models.Ticket{ID: params.ID}).
				Preload("Event").
				Preload("TicketType").
				Preload("Booking").
				Preload("AddOn").
				Preload("AddOn.Items").
				First(&ticket).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if ticket.Booking.UserID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "ticket does not belong to the current user"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		PUT("/tickets/:id/transfer", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.TransferTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			ticket, err := utils.TransferTicket(userId, params.ID, body.FullName, body.Email)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		GET("/tickets/:id/code", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			ticketId := params.ID
			var query struct {
				Download bool `form:"download"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				log.Printf("Error while parsing request params: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			filename := fmt.Sprintf("ticketcode_%d", ticketId)
			rd := lib.GetRedisClient()
			var cached string
			if rd != nil {
				content, err := rd.Get(context.Background(), filename).Result()
				if err != nil {
					if errors.Is(redis.Nil, err) {
						log.Printf("No value for key: %s\n", filename)
					} else {
						log.Printf("Error reading from cache: %s\n", err.Error())
					}
				}
				cached = content
			}
			wd, err := os.Getwd()
			if err != nil {
				log.Printf("Could not read working directory: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			if cached != "" {
				if !query.Download {
					ctx.JSON(http.StatusOK, gin.H{"url": cached})
					return
				}
				filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
				if err := awslib.S3DownloadAsset(filename); err != nil {
					log.Printf("Error downloading asset [%s] from S3 bucket: %s\n", filename, err.Error())
					ctx.Status(http.StatusBadRequest)
					return
				}
				ctx.FileAttachment(filepath, "eticket.jpeg")
				return
			}
			var filepath string
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				var ticket models.Ticket
				if err := tx.
					Where(&models.Ticket{ID: ticketId}).
					Preload("Booking").
					Preload("Event").
					First(&ticket).
					Error; err != nil {
					return err
				}
				if ticket.Booking.UserID != userId {
					return types.NewPermissionError("ticket [%d] does not belong to the current user", ticketId)
				}
				now := time.Now()
				if now.After(ticket.Event.StartDate.AddDate(0, 0, 1)) {
					return types.NewValidationError("ticket is no longer valid")
				}

				rawData := map[string]any{
					"ticketId": ticket.ID,
					"attendee": ticket.AttendeeName,
				}
				rawBytes, _ := json.Marshal(rawData)
				rawText := string(rawBytes)

				keyEnv := os.Getenv("API_QRC_SECRET")
				key, err := hex.DecodeString(keyEnv)
				if err != nil {
					log.Printf("Could not read key from string: %s\n", err.Error())
					return err
				}
				encryptedMessage, err := utils.EncryptMessage(key, rawText)
				if err != nil {
					log.Printf("Error encrypting message: %s\n", err.Error())
					return err
				}
				qrc, err := qrcode.New(encryptedMessage)
				if err != nil {
					return err
				}
				filepath = path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
				if err = qrc.Save(filepath); err != nil {
					log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
					return err
				}
				if err := tx.
					Model(&models.Ticket{}).
					Where(&models.Ticket{ID: ticketId}).
					Update("code_asset_key", filename).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			appEnv := os.Getenv("APP_ENV")
			if appEnv != "local" {
				url, err := awslib.S3UploadAsset(filename, filepath)
				if err != nil {
					log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
					ctx.Status(http.StatusBadGateway)
					return
				}
				if rd != nil {
					rd.SetEx(context.Background(), filename, *url, 2*time.Hour)
				}
				ctx.JSON(http.StatusOK, gin.H{"url": *url})
				return
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		}).
		PATCH("/add-ons/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ChangeAddOnPreferenceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.ChangeAddOnPreference(userId, params.ID, body.Value); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
