package model

import "time"

// AvatarEmoji stores the custom emoji generated from a user's avatar
type AvatarEmoji struct {
	UserID    string    `gorm:"primary_key"`
	EmojiID   string    `gorm:"not null"`
	AvatarURL string    // avatar the emoji was rendered from
	LastUsed  time.Time `gorm:"index"`
}
