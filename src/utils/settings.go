package utils

import (
	"ems/src/models"
	"errors"

	"gorm.io/gorm"
)

// GetSettings loads the single settings row, falling back to defaults when
// none has been saved yet.
func GetSettings(tx *gorm.DB) (*models.Setting, error) {
	var settings models.Setting
	err := tx.Model(&models.Setting{}).Order("id asc").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Setting{}, nil
		}
		return nil, err
	}
	return &settings, nil
}

func SaveSettings(tx *gorm.DB, settings *models.Setting) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return tx.Save(settings).Error
}
