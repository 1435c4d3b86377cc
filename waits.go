package main

import (
	"sync"
	"time"

	"github.com/darui3018823/discordgo"
)

// waitTimeout bounds every interactive wait; hitting it is expected, not an
// error, and the flow falls through to its cleanup step.
const waitTimeout = 30 * time.Second

// waiterHub hands inbound events to flows blocked on a user's next message
// or reaction. A waiter exists only between registration and the first of
// delivery or timeout; every exit path unregisters it.
type waiterHub struct {
	mu        sync.Mutex
	messages  map[string]chan *discordgo.Message
	reactions map[string]chan struct{}
}

func newWaiterHub() *waiterHub {
	return &waiterHub{
		messages:  map[string]chan *discordgo.Message{},
		reactions: map[string]chan struct{}{},
	}
}

func messageKey(userID, channelID string) string {
	return userID + "/" + channelID
}

func reactionKey(userID, messageID, emojiID string) string {
	return userID + "/" + messageID + "/" + emojiID
}

// WaitForMessage blocks until the user's next message in the channel, or
// until the timeout passes
func (h *waiterHub) WaitForMessage(userID, channelID string, timeout time.Duration) (*discordgo.Message, bool) {
	key := messageKey(userID, channelID)
	ch := make(chan *discordgo.Message, 1)

	h.mu.Lock()
	h.messages[key] = ch
	h.mu.Unlock()

	select {
	case m := <-ch:
		return m, true
	case <-time.After(timeout):
	}

	// The timeout raced a feeder: if the entry is already gone, the feeder
	// committed to this waiter and the message is (or will be) in the
	// buffered channel. It still counts as delivered; dropping it here
	// would swallow a user message.
	h.mu.Lock()
	_, pending := h.messages[key]
	delete(h.messages, key)
	h.mu.Unlock()
	if !pending {
		return <-ch, true
	}
	return nil, false
}

// feedMessage offers an inbound message to a waiting flow, reporting
// whether it was consumed
func (h *waiterHub) feedMessage(m *discordgo.Message) bool {
	key := messageKey(m.Author.ID, m.ChannelID)

	// Delete and send under one lock so the commit to the waiter is atomic
	// against its timeout path. The channel is buffered, the send never
	// blocks.
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.messages[key]
	if !ok {
		return false
	}
	delete(h.messages, key)
	ch <- m
	return true
}

// WaitForReaction blocks until the user adds the given emoji to the
// message, or until the timeout passes
func (h *waiterHub) WaitForReaction(userID, messageID, emojiID string, timeout time.Duration) bool {
	key := reactionKey(userID, messageID, emojiID)
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.reactions[key] = ch
	h.mu.Unlock()

	select {
	case <-ch:
		return true
	case <-time.After(timeout):
	}

	h.mu.Lock()
	_, pending := h.reactions[key]
	delete(h.reactions, key)
	h.mu.Unlock()
	if !pending {
		<-ch
		return true
	}
	return false
}

// feedReaction offers an inbound reaction to a waiting flow
func (h *waiterHub) feedReaction(r *discordgo.MessageReactionAdd) bool {
	key := reactionKey(r.UserID, r.MessageID, r.Emoji.ID)

	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.reactions[key]
	if !ok {
		return false
	}
	delete(h.reactions, key)
	ch <- struct{}{}
	return true
}
