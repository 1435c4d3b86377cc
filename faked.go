package main

import (
	"sync"

	"github.com/darui3018823/discordgo"
)

// FakedKind discriminates what produced a reposted message
type FakedKind int

const (
	// FakedPlain is an emoji-token repost of an ordinary message
	FakedPlain FakedKind = iota
	// FakedReply is a repost rendered through the reply template
	FakedReply
	// FakedSticker is a sticker send; stickers are immutable once posted
	FakedSticker
)

// FakedMessage links a user's original message to the impersonated
// replacement sent through a webhook, so the original author can still edit
// and delete it afterwards.
type FakedMessage struct {
	Kind     FakedKind
	Original *discordgo.Message

	ReplacementID string
	ChannelID     string
	WebhookID     string
	WebhookToken  string

	// Reply is set only for FakedReply records
	Reply *ReplyMeta
}

// FakedRegistry maps replacement message IDs to their records. It is
// process-scoped: after a restart older reposts simply become non-editable.
type FakedRegistry struct {
	mu      sync.Mutex
	records map[string]*FakedMessage
}

// NewFakedRegistry builds an empty registry
func NewFakedRegistry() *FakedRegistry {
	return &FakedRegistry{records: map[string]*FakedMessage{}}
}

// Register stores a record under its replacement message ID
func (r *FakedRegistry) Register(record *FakedMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ReplacementID] = record
}

// Lookup returns the record for a replacement message ID, or nil
func (r *FakedRegistry) Lookup(replacementID string) *FakedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[replacementID]
}

// Remove drops the record for a replacement message ID
func (r *FakedRegistry) Remove(replacementID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, replacementID)
}

// Len returns the number of registered records
func (r *FakedRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
