package model

import "fmt"

// EmojiRef references a custom emoji visible to the bot. It is not
// persisted; Discord is the source of truth for the live emoji set.
type EmojiRef struct {
	ID       string
	Name     string
	Animated bool
}

// APIName returns the name:id form REST reaction endpoints expect
func (e EmojiRef) APIName() string {
	return e.Name + ":" + e.ID
}

// Tag returns the renderable form of the emoji for message content
func (e EmojiRef) Tag() string {
	if e.Animated {
		return fmt.Sprintf("<a:%s:%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
}
