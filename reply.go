package main

import (
	"fmt"
	"strings"

	"github.com/darui3018823/discordgo"

	"github.com/u16-io/EmoteWizard4Discord/model"
	"github.com/u16-io/EmoteWizard4Discord/service"
)

// ReplyMeta is the template state for a reply repost: the quoted message,
// the avatar emoji standing in for its author, and whether the quoted
// author gets pinged.
type ReplyMeta struct {
	Quote   *discordgo.Message
	Emoji   model.EmojiRef
	Mention bool
}

// Format renders the reply template around the reply text. The text runs
// through the emoji resolver so edits keep token support.
func (r *ReplyMeta) Format(resolver *Resolver, index EmojiIndex, content string) string {
	formatted, _ := resolver.Resolve(escapeMentions(content), index)

	author := fmt.Sprintf("> %s **%s**", r.Emoji.Tag(), r.Quote.Author.Mention())

	var quoted string
	if r.Quote.Content != "" {
		lines := strings.Split(escapeMentions(r.Quote.Content), "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		quoted = strings.Join(lines, "\n")
	} else {
		var items []string
		if len(r.Quote.Embeds) > 0 {
			items = append(items, "embed")
		}
		if len(r.Quote.Attachments) > 0 {
			items = append(items, "attachment")
		}
		if len(items) == 0 {
			items = append(items, "message")
		}
		quoted = "> Jump to view " + strings.Join(items, " and ")
	}

	jump := fmt.Sprintf("> [Jump to message](<%s>)", jumpURL(r.Quote.GuildID, r.Quote.ChannelID, r.Quote.ID))
	return author + " \n" + quoted + " \n" + jump + " \n" + formatted
}

// allowedMentions limits pings to users, or to nobody with --no-mention
func (r *ReplyMeta) allowedMentions() *discordgo.MessageAllowedMentions {
	if r.Mention {
		return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}}
	}
	return &discordgo.MessageAllowedMentions{}
}

// cmdReply handles reply <message> [--no-mention|-n] <text>
func (b *Bot) cmdReply(m *discordgo.Message, args []string, tail string) {
	if len(args) < 2 {
		b.notify(m.ChannelID, ":x: Usage: reply <message> <text>")
		return
	}

	quote, err := b.lookupMessage(m, args[0])
	if err != nil {
		b.notify(m.ChannelID, ":x: I couldn't find the message `"+args[0]+"`")
		return
	}

	text := strings.TrimSpace(strings.TrimPrefix(tail, args[0]))
	mention := true
	for _, flag := range []string{"--no-mention", "-n"} {
		if strings.HasPrefix(text, flag) {
			mention = false
			text = strings.TrimSpace(strings.TrimPrefix(text, flag))
			break
		}
	}
	if text == "" {
		b.notify(m.ChannelID, ":x: Usage: reply <message> <text>")
		return
	}

	emoji, err := b.avatars.Ensure(service.AvatarUser{
		ID:        quote.Author.ID,
		AvatarURL: quote.Author.AvatarURL("1024"),
	})
	if err != nil {
		b.reportError("reply", m, err)
		return
	}

	if quote.GuildID == "" {
		quote.GuildID = m.GuildID
	}
	meta := &ReplyMeta{Quote: quote, Emoji: emoji, Mention: mention}
	content := meta.Format(b.resolver, b, text)

	wh, err := b.GuildWebhook(m.GuildID)
	if err != nil {
		b.reportError("reply", m, err)
		return
	}
	if wh == nil || !b.CanImpersonate(m.ChannelID) {
		b.notify(m.ChannelID, ":x: I am missing the permissions I need to send a reply")
		return
	}

	if err := b.Relocate(wh, m.ChannelID); err != nil {
		b.reportError("reply", m, err)
		return
	}

	replacement, err := b.Execute(wh, &discordgo.WebhookParams{
		Content:         content,
		Username:        authorDisplayName(m),
		AvatarURL:       authorAvatarURL(m),
		AllowedMentions: meta.allowedMentions(),
	})
	if err != nil {
		b.reportError("reply", m, err)
		return
	}

	b.faked.Register(&FakedMessage{
		Kind:          FakedReply,
		Original:      m,
		ReplacementID: replacement.ID,
		ChannelID:     m.ChannelID,
		WebhookID:     wh.ID,
		WebhookToken:  wh.Token,
		Reply:         meta,
	})

	if err := b.DeleteMessage(m.ChannelID, m.ID); err != nil {
		b.reportError("reply", m, err)
	}
}

// lookupMessage resolves a message argument: an ID in the current channel,
// or a negative offset into recent history (-1 is the message right above).
func (b *Bot) lookupMessage(m *discordgo.Message, arg string) (*discordgo.Message, error) {
	if strings.HasPrefix(arg, "-") {
		offset := 0
		if _, err := fmt.Sscanf(arg, "%d", &offset); err != nil {
			return nil, fmt.Errorf("bad message offset %q: %w", arg, err)
		}
		limit := -offset
		if limit < 1 || limit > 100 {
			return nil, fmt.Errorf("message offset %d out of range", offset)
		}
		history, err := b.session.ChannelMessages(m.ChannelID, limit, m.ID, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel history: %w", err)
		}
		if len(history) < limit {
			return nil, fmt.Errorf("message offset %d out of range", offset)
		}
		return history[limit-1], nil
	}

	msg, err := b.session.ChannelMessage(m.ChannelID, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", arg, err)
	}
	return msg, nil
}
