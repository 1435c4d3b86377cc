package service

import (
	"errors"
	"testing"

	"github.com/u16-io/EmoteWizard4Discord/db"
	"github.com/u16-io/EmoteWizard4Discord/model"
)

func TestCreateStickerDuplicateName(t *testing.T) {
	openTestDB(t)

	if err := CreateSticker("owner-1", "party", "/stickers/party.png"); err != nil {
		t.Fatalf("CreateSticker: %v", err)
	}

	// Names are global, so another owner cannot reuse one either
	err := CreateSticker("owner-2", "party", "/stickers/other.png")
	if !errors.Is(err, ErrStickerExists) {
		t.Fatalf("CreateSticker duplicate = %v, want ErrStickerExists", err)
	}

	var count int
	if err := db.DB.Model(&model.Sticker{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("stickers table holds %d rows, want 1", count)
	}
}

func TestGetSticker(t *testing.T) {
	openTestDB(t)

	if err := CreateSticker("owner-1", "party", "/stickers/party.png"); err != nil {
		t.Fatalf("CreateSticker: %v", err)
	}

	sticker, err := GetSticker("party")
	if err != nil {
		t.Fatalf("GetSticker: %v", err)
	}
	if sticker.OwnerID != "owner-1" || sticker.ContentPath != "/stickers/party.png" {
		t.Errorf("sticker = %+v, want the stored row", sticker)
	}

	if _, err := GetSticker("missing"); !errors.Is(err, ErrStickerNotFound) {
		t.Errorf("GetSticker(missing) = %v, want ErrStickerNotFound", err)
	}
}

func TestDeleteStickerOwnerScoped(t *testing.T) {
	openTestDB(t)

	if err := CreateSticker("owner-1", "party", "/stickers/party.png"); err != nil {
		t.Fatalf("CreateSticker: %v", err)
	}

	if _, err := DeleteSticker("owner-2", "party"); !errors.Is(err, ErrStickerNotFound) {
		t.Fatalf("DeleteSticker by non-owner = %v, want ErrStickerNotFound", err)
	}
	if _, err := GetSticker("party"); err != nil {
		t.Fatalf("sticker vanished after rejected delete: %v", err)
	}

	deleted, err := DeleteSticker("owner-1", "party")
	if err != nil {
		t.Fatalf("DeleteSticker by owner: %v", err)
	}
	if deleted.ContentPath != "/stickers/party.png" {
		t.Errorf("deleted row path = %q, want the stored path", deleted.ContentPath)
	}
	if _, err := GetSticker("party"); !errors.Is(err, ErrStickerNotFound) {
		t.Errorf("GetSticker after delete = %v, want ErrStickerNotFound", err)
	}
}
