package main

import (
	"errors"
	"log"
	"strings"

	"github.com/darui3018823/discordgo"
)

const (
	editReaction   = "\U0001F4DD" // memo
	deleteReaction = "❌"     // cross mark
)

// errStickerImmutable rejects edits on sticker reposts
var errStickerImmutable = errors.New("stickers cannot be edited")

// applyEdit re-renders and patches the replacement message for a faked
// record. Each kind re-renders its own way; the record itself never changes.
func (b *Bot) applyEdit(record *FakedMessage, content string) error {
	var rendered string
	switch record.Kind {
	case FakedSticker:
		return errStickerImmutable
	case FakedReply:
		rendered = record.Reply.Format(b.resolver, b, content)
	case FakedPlain:
		resolved, _ := b.resolver.Resolve(content, b)
		rendered = escapeMentions(resolved)
	}

	_, err := b.session.WebhookMessageEdit(record.WebhookID, record.WebhookToken, record.ReplacementID, &discordgo.WebhookEdit{
		Content: &rendered,
	})
	return err
}

// removeFaked deletes the replacement message and drops the record
func (b *Bot) removeFaked(record *FakedMessage) error {
	err := b.session.WebhookMessageDelete(record.WebhookID, record.WebhookToken, record.ReplacementID)
	if err != nil && !isNotFound(err) {
		return err
	}
	b.faked.Remove(record.ReplacementID)
	return nil
}

// cmdEdit handles edit <replacement id> <new content>
func (b *Bot) cmdEdit(m *discordgo.Message, args []string, tail string) {
	if len(args) < 2 {
		b.notify(m.ChannelID, ":x: Usage: edit <message id> <new content>")
		return
	}

	record := b.faked.Lookup(args[0])
	if record == nil {
		b.notify(m.ChannelID, ":x: That isn't a message I reposted")
		return
	}
	if record.Original.Author.ID != m.Author.ID {
		b.notify(m.ChannelID, ":x: You can only edit your own messages")
		return
	}

	content := strings.TrimSpace(strings.TrimPrefix(tail, args[0]))
	if err := b.applyEdit(record, content); err != nil {
		if errors.Is(err, errStickerImmutable) {
			b.notify(m.ChannelID, ":x: Stickers cannot be edited")
			return
		}
		b.reportError("edit", m, err)
		return
	}

	if err := b.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("[Edit] Failed to delete command message %s: %v", m.ID, err)
	}
}

// cmdDelete handles delete <replacement id>
func (b *Bot) cmdDelete(m *discordgo.Message, args []string) {
	if len(args) < 1 {
		b.notify(m.ChannelID, ":x: Usage: delete <message id>")
		return
	}

	record := b.faked.Lookup(args[0])
	if record == nil {
		b.notify(m.ChannelID, ":x: That isn't a message I reposted")
		return
	}
	if record.Original.Author.ID != m.Author.ID {
		b.notify(m.ChannelID, ":x: You can only delete your own messages")
		return
	}

	if err := b.removeFaked(record); err != nil {
		b.reportError("delete", m, err)
		return
	}

	if err := b.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("[Delete] Failed to delete command message %s: %v", m.ID, err)
	}
}

// onReactionAdd routes reactions: waiting flows first, then the pencil and
// cross shortcuts on reposted messages
func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID {
		return
	}
	if b.waiters.feedReaction(r) {
		return
	}

	record := b.faked.Lookup(r.MessageID)
	if record == nil || record.Original.Author.ID != r.UserID {
		return
	}

	switch r.Emoji.Name {
	case editReaction:
		if record.Kind == FakedSticker {
			return
		}
		b.reactionEdit(record, r.UserID)
	case deleteReaction:
		if err := b.removeFaked(record); err != nil {
			log.Printf("[Delete] Failed to delete replacement %s: %v", record.ReplacementID, err)
		}
	}
}

// reactionEdit collects the new content over DM with a one-shot wait. The
// bot's own pencil reaction marks the pending edit and is removed on every
// exit path, including timeout.
func (b *Bot) reactionEdit(record *FakedMessage, userID string) {
	if err := b.session.MessageReactionAdd(record.ChannelID, record.ReplacementID, editReaction); err != nil {
		log.Printf("[Edit] Failed to ack edit reaction: %v", err)
	}
	defer func() {
		err := b.session.MessageReactionRemove(record.ChannelID, record.ReplacementID, editReaction, b.session.State.User.ID)
		if err != nil && !isNotFound(err) {
			log.Printf("[Edit] Failed to remove edit reaction: %v", err)
		}
	}()

	dm, err := b.session.UserChannelCreate(userID)
	if err != nil {
		log.Printf("[Edit] Failed to open DM with %s: %v", userID, err)
		return
	}
	if _, err := b.session.ChannelMessageSend(dm.ID, "What should the message say? You have 30 seconds."); err != nil {
		log.Printf("[Edit] Failed to prompt %s: %v", userID, err)
		return
	}

	reply, ok := b.waiters.WaitForMessage(userID, dm.ID, waitTimeout)
	if !ok {
		b.session.ChannelMessageSend(dm.ID, ":alarm_clock: Edit timed out")
		return
	}

	if err := b.applyEdit(record, reply.Content); err != nil {
		b.session.ChannelMessageSend(dm.ID, ":x: I couldn't apply that edit")
		log.Printf("[Edit] Failed to edit replacement %s: %v", record.ReplacementID, err)
		return
	}
	b.session.ChannelMessageSend(dm.ID, ":white_check_mark: Message updated")
}

// cmdReact handles react <emoji> [message id | negative offset]: the bot
// reacts for the user, then clears its own reaction once the user has
// piled on (or after the wait expires).
func (b *Bot) cmdReact(m *discordgo.Message, args []string) {
	if len(args) < 1 {
		b.notify(m.ChannelID, ":x: Usage: react <emoji> [message]")
		return
	}

	emoji, ok := b.EmojiByName(args[0])
	if !ok {
		b.notify(m.ChannelID, ":x: I couldn't find the emoji `"+args[0]+"`")
		return
	}

	targetArg := "-1"
	if len(args) > 1 {
		targetArg = args[1]
	}
	target, err := b.lookupMessage(m, targetArg)
	if err != nil {
		b.notify(m.ChannelID, ":x: I couldn't find that message")
		return
	}

	if err := b.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("[React] Failed to delete command message %s: %v", m.ID, err)
	}

	if err := b.session.MessageReactionAdd(target.ChannelID, target.ID, emoji.APIName()); err != nil {
		b.notify(m.ChannelID, ":x: I couldn't react to that message")
		return
	}

	b.waiters.WaitForReaction(m.Author.ID, target.ID, emoji.ID, waitTimeout)
	err = b.session.MessageReactionRemove(target.ChannelID, target.ID, emoji.APIName(), b.session.State.User.ID)
	if err != nil && !isNotFound(err) {
		log.Printf("[React] Failed to remove own reaction: %v", err)
	}
}
