package controllers

import (
	"errors"
	"strconv"
	"strings"

	"VibeShared/models"

	"gorm.io/gorm"
)

var errInvalidIdentifier = errors.New("invalid identifier")

func resolvePostByIdentifier(db *gorm.DB, identifier string) (*models.Post, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, errInvalidIdentifier
	}
	var post models.Post
	if isUUIDLike(trimmed) {
		if err := db.Where("public_id = ?", trimmed).First(&post).Error; err == nil {
			return &post, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if numericID, err := strconv.ParseUint(trimmed, 10, 32); err == nil {
		if err := db.First(&post, uint(numericID)).Error; err != nil {
			return nil, err
		}
		return &post, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func resolveCommentByIdentifier(db *gorm.DB, identifier string) (*models.Comment, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, errInvalidIdentifier
	}
	var comment models.Comment
	if isUUIDLike(trimmed) {
		if err := db.Where("public_id = ?", trimmed).First(&comment).Error; err == nil {
			return &comment, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if numericID, err := strconv.ParseUint(trimmed, 10, 32); err == nil {
		if err := db.First(&comment, uint(numericID)).Error; err != nil {
			return nil, err
		}
		return &comment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func resolveWithdrawalByIdentifier(db *gorm.DB, identifier string) (*models.Withdrawal, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, errInvalidIdentifier
	}
	var withdrawal models.Withdrawal
	if isUUIDLike(trimmed) {
		if err := db.Where("public_id = ?", trimmed).First(&withdrawal).Error; err == nil {
			return &withdrawal, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if numericID, err := strconv.ParseUint(trimmed, 10, 32); err == nil {
		if err := db.First(&withdrawal, uint(numericID)).Error; err != nil {
			return nil, err
		}
		return &withdrawal, nil
	}
	return nil, gorm.ErrRecordNotFound
}
