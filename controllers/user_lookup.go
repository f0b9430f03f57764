package controllers

import (
	"errors"
	"strconv"
	"strings"

	"VibeShared/models"

	"gorm.io/gorm"
)

func resolveUserByIdentifier(db *gorm.DB, identifier string) (*models.User, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var user models.User
	if isUUIDLike(trimmed) {
		if err := db.Where("public_id = ?", trimmed).First(&user).Error; err == nil {
			return &user, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	username := strings.ToLower(trimmed)
	if err := db.Where("username = ?", username).First(&user).Error; err == nil {
		return &user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if numericID, err := strconv.ParseUint(trimmed, 10, 32); err == nil {
		if err := db.First(&user, uint(numericID)).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	return nil, gorm.ErrRecordNotFound
}
