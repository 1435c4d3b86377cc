package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/u16-io/EmoteWizard4Discord/db"
	"github.com/u16-io/EmoteWizard4Discord/model"
)

// ErrStickerExists is returned when creating a sticker under a taken name
var ErrStickerExists = errors.New("sticker name is already in use")

// ErrStickerNotFound is returned when no matching sticker exists
var ErrStickerNotFound = errors.New("no sticker with that name")

// CreateSticker stores a sticker metadata row. Names are unique and
// case-sensitive; duplicates are rejected before anything is written.
func CreateSticker(ownerID, name, contentPath string) error {
	var count int
	if err := db.DB.Model(&model.Sticker{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check sticker name %q: %w", name, err)
	}
	if count > 0 {
		return ErrStickerExists
	}

	sticker := model.Sticker{OwnerID: ownerID, Name: name, ContentPath: contentPath}
	if err := db.DB.Create(&sticker).Error; err != nil {
		return fmt.Errorf("failed to create sticker %q: %w", name, err)
	}
	return nil
}

// GetSticker retrieves a sticker by name
func GetSticker(name string) (*model.Sticker, error) {
	var sticker model.Sticker
	if err := db.DB.Where("name = ?", name).First(&sticker).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrStickerNotFound
		}
		return nil, fmt.Errorf("failed to load sticker %q: %w", name, err)
	}
	return &sticker, nil
}

// DeleteSticker removes the metadata row for a sticker owned by ownerID and
// returns the deleted row so the caller can remove the stored content.
func DeleteSticker(ownerID, name string) (*model.Sticker, error) {
	var sticker model.Sticker
	err := db.DB.Where("owner_id = ? AND name = ?", ownerID, name).First(&sticker).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrStickerNotFound
		}
		return nil, fmt.Errorf("failed to load sticker %q: %w", name, err)
	}

	err = db.DB.Where("owner_id = ? AND name = ?", ownerID, name).Delete(&model.Sticker{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete sticker %q: %w", name, err)
	}
	return &sticker, nil
}
