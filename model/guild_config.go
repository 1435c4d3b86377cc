package model

// GuildConfig stores the per-guild webhook binding
type GuildConfig struct {
	GuildID   string `gorm:"primary_key"`
	WebhookID string // empty when no webhook is bound
}

// TableName is the table name used by the original schema
func (GuildConfig) TableName() string {
	return "guild_config"
}
