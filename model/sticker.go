package model

// Sticker stores a named image asset owned by a user
type Sticker struct {
	OwnerID     string `gorm:"not null"`
	Name        string `gorm:"primary_key"`
	ContentPath string `gorm:"not null"`
}
