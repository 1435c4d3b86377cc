package db

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"

	"github.com/u16-io/EmoteWizard4Discord/model"
)

// DB is the shared database handle
var DB *gorm.DB

// Init opens the sqlite database and migrates the schema
func Init(path string) error {
	gdb, err := gorm.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := gdb.AutoMigrate(
		&model.GuildConfig{},
		&model.Sticker{},
		&model.AvatarEmoji{},
	).Error; err != nil {
		gdb.Close()
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	DB = gdb
	return nil
}

// Close closes the database handle
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
