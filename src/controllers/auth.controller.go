package controllers

import (
	"ems/src/db"
	"ems/src/models"
	"ems/src/types"
	"ems/src/utils"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var user models.User
	if err = db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.User{}).
			Where("id", user.ID).
			Update("last_active", time.Now()).
			Error
	})
	if err != nil {
		log.Printf("Error logging in user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not sign in")
	}
	return &jwt, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (uid *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not complete registration")
	}

	db := db.GetDb()
	newUser := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		Role:         "attendee",
		UID:          uuid.NewString(),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.
			Model(&models.User{}).
			Select("id").
			Where("email = ?", body.Email).
			First(&existing).
			Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("could not complete transaction")
			}
		}
		if existing.ID != 0 {
			err := errors.New("user is already registered in the system. Please proceed to Log In")
			log.Printf("error: %s\n", err.Error())
			return err
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return errors.New("could not create the user account")
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &newUser.UID, http.StatusOK, nil
}
