package service

import (
	"fmt"
	"sync"

	"github.com/jinzhu/gorm"

	"github.com/u16-io/EmoteWizard4Discord/db"
	"github.com/u16-io/EmoteWizard4Discord/model"
)

// WebhookConfigStore is a read-through cache over the guild_config table.
// At most one webhook binding exists per guild; a guild without a row gets
// an in-memory default that is not persisted until the first write.
type WebhookConfigStore struct {
	mu    sync.Mutex
	cache map[string]*model.GuildConfig
}

// NewWebhookConfigStore builds an empty store
func NewWebhookConfigStore() *WebhookConfigStore {
	return &WebhookConfigStore{cache: map[string]*model.GuildConfig{}}
}

// Get returns the webhook config for a guild. Repeated calls for the same
// guild return the same cached object for the lifetime of the process.
func (s *WebhookConfigStore) Get(guildID string) (*model.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, ok := s.cache[guildID]; ok {
		return cfg, nil
	}

	cfg := &model.GuildConfig{GuildID: guildID}
	err := db.DB.Where("guild_id = ?", guildID).First(cfg).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("failed to load webhook config for guild %s: %w", guildID, err)
	}

	s.cache[guildID] = cfg
	return cfg, nil
}

// SetWebhook binds a webhook to the guild (empty ID unbinds). The row is
// upserted and the cached object is updated in the same call, so concurrent
// readers never observe the old webhook ID once this returns.
func (s *WebhookConfigStore) SetWebhook(cfg *model.GuildConfig, webhookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Assign with a map: a struct Assign would skip the blank webhook ID
	// and unbinding would never reach the row.
	row := model.GuildConfig{GuildID: cfg.GuildID}
	err := db.DB.Where("guild_id = ?", cfg.GuildID).
		Assign(map[string]interface{}{"webhook_id": webhookID}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save webhook config for guild %s: %w", cfg.GuildID, err)
	}

	cfg.WebhookID = webhookID
	s.cache[cfg.GuildID] = cfg
	return nil
}
