package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/u16-io/EmoteWizard4Discord/db"
	"github.com/u16-io/EmoteWizard4Discord/model"
)

// AvatarEmojiLimit is Discord's custom emoji slot count on the guild that
// hosts the generated avatar emojis.
const AvatarEmojiLimit = 50

// EmojiHost abstracts the guild owning the generated avatar emojis.
// Implementations normalize "resource no longer exists" to (zero, false)
// for lookups and to a nil error for deletes.
type EmojiHost interface {
	EmojiByID(id string) (model.EmojiRef, bool)
	EmojiCount() (int, error)
	CreateEmoji(name string, image []byte) (model.EmojiRef, error)
	DeleteEmoji(id string) error
}

// AvatarFetcher downloads the raw avatar image behind a CDN URL
type AvatarFetcher func(url string) ([]byte, error)

// AvatarRenderer converts raw avatar bytes into the emoji image
type AvatarRenderer func(src []byte) ([]byte, error)

// AvatarUser is the subset of a Discord user the cache needs
type AvatarUser struct {
	ID        string
	AvatarURL string
}

// AvatarEmojiCache maps users to custom emojis generated from their avatars.
// Rows in avatar_emojis mirror the cache; the live emoji set is bounded by
// AvatarEmojiLimit with least-recently-used eviction on last_used.
type AvatarEmojiCache struct {
	mu     sync.Mutex
	host   EmojiHost
	fetch  AvatarFetcher
	render AvatarRenderer
	limit  int

	entries map[string]*model.AvatarEmoji
}

// NewAvatarEmojiCache hydrates the cache from the avatar_emojis table
func NewAvatarEmojiCache(host EmojiHost, fetch AvatarFetcher, render AvatarRenderer) (*AvatarEmojiCache, error) {
	var rows []model.AvatarEmoji
	if err := db.DB.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load avatar emojis: %w", err)
	}

	entries := make(map[string]*model.AvatarEmoji, len(rows))
	for i := range rows {
		entries[rows[i].UserID] = &rows[i]
	}

	return &AvatarEmojiCache{
		host:    host,
		fetch:   fetch,
		render:  render,
		limit:   AvatarEmojiLimit,
		entries: entries,
	}, nil
}

// Get returns the cached entry for a user without regenerating anything
func (c *AvatarEmojiCache) Get(userID string) *model.AvatarEmoji {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[userID]
}

// Len returns the number of cached entries
func (c *AvatarEmojiCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Ensure returns a live avatar emoji for the user, creating or regenerating
// one when the cached entry is absent, rendered from an outdated avatar, or
// references an emoji that no longer exists. The hit path performs no image
// I/O and only bumps last_used.
func (c *AvatarEmojiCache) Ensure(user AvatarUser) (model.EmojiRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[user.ID]

	if entry != nil && entry.AvatarURL == user.AvatarURL {
		if ref, ok := c.host.EmojiByID(entry.EmojiID); ok {
			now := time.Now().UTC()
			err := db.DB.Model(&model.AvatarEmoji{}).
				Where("user_id = ?", user.ID).
				Update("last_used", now).Error
			if err != nil {
				return model.EmojiRef{}, fmt.Errorf("failed to touch avatar emoji for user %s: %w", user.ID, err)
			}
			entry.LastUsed = now
			return ref, nil
		}
	}

	// The stored emoji was rendered from an old avatar; drop the live
	// resource before replacing it. Losing this delete only leaks a slot
	// until eviction catches it.
	if entry != nil && entry.AvatarURL != user.AvatarURL {
		if err := c.host.DeleteEmoji(entry.EmojiID); err != nil {
			log.Printf("[AvatarEmoji] Failed to delete outdated emoji %s: %v", entry.EmojiID, err)
		}
	}

	count, err := c.host.EmojiCount()
	if err != nil {
		return model.EmojiRef{}, fmt.Errorf("failed to count emoji slots: %w", err)
	}
	if count >= c.limit {
		if err := c.evictOldest(); err != nil {
			return model.EmojiRef{}, err
		}
	}

	src, err := c.fetch(user.AvatarURL)
	if err != nil {
		return model.EmojiRef{}, fmt.Errorf("failed to fetch avatar for user %s: %w", user.ID, err)
	}
	image, err := c.render(src)
	if err != nil {
		return model.EmojiRef{}, fmt.Errorf("failed to render avatar for user %s: %w", user.ID, err)
	}

	ref, err := c.host.CreateEmoji(fmt.Sprintf("user_%s", user.ID), image)
	if err != nil {
		return model.EmojiRef{}, fmt.Errorf("failed to create avatar emoji for user %s: %w", user.ID, err)
	}

	now := time.Now().UTC()
	row := model.AvatarEmoji{UserID: user.ID}
	err = db.DB.Where("user_id = ?", user.ID).
		Assign(model.AvatarEmoji{UserID: user.ID, EmojiID: ref.ID, AvatarURL: user.AvatarURL, LastUsed: now}).
		FirstOrCreate(&row).Error
	if err != nil {
		return model.EmojiRef{}, fmt.Errorf("failed to save avatar emoji for user %s: %w", user.ID, err)
	}

	c.entries[user.ID] = &model.AvatarEmoji{
		UserID:    user.ID,
		EmojiID:   ref.ID,
		AvatarURL: user.AvatarURL,
		LastUsed:  now,
	}
	return ref, nil
}

// evictOldest removes the entry with the minimum last_used. The platform
// delete must succeed before a replacement is created so the slot budget is
// never exceeded.
func (c *AvatarEmojiCache) evictOldest() error {
	var oldest *model.AvatarEmoji
	for _, entry := range c.entries {
		if oldest == nil || entry.LastUsed.Before(oldest.LastUsed) {
			oldest = entry
		}
	}
	if oldest == nil {
		return fmt.Errorf("emoji slots are full but no avatar emojis are tracked")
	}

	if err := c.host.DeleteEmoji(oldest.EmojiID); err != nil {
		return fmt.Errorf("failed to evict emoji %s: %w", oldest.EmojiID, err)
	}
	err := db.DB.Where("emoji_id = ?", oldest.EmojiID).Delete(&model.AvatarEmoji{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete evicted avatar emoji row: %w", err)
	}

	delete(c.entries, oldest.UserID)
	log.Printf("[AvatarEmoji] Evicted emoji %s (user %s)", oldest.EmojiID, oldest.UserID)
	return nil
}
