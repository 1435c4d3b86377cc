package main

import (
	"io"
	"log"
	"strings"

	"github.com/darui3018823/discordgo"
)

// hookSender is the slice of the platform API the impersonation paths use,
// split from *discordgo.Session so the send ordering stays testable.
type hookSender interface {
	CanImpersonate(channelID string) bool
	GuildWebhook(guildID string) (*discordgo.Webhook, error)
	Relocate(wh *discordgo.Webhook, channelID string) error
	Execute(wh *discordgo.Webhook, params *discordgo.WebhookParams) (*discordgo.Message, error)
	SendPlain(channelID, content string) error
	DeleteMessage(channelID, messageID string) error
	Download(url string) (io.ReadCloser, error)
}

// repostMessage runs the emoji repost pipeline for one qualifying message:
// resolve tokens, pick the delivery path, impersonate the author through the
// guild webhook, register the faked record and delete the original.
func repostMessage(sender hookSender, reg *FakedRegistry, resolver *Resolver, index EmojiIndex, m *discordgo.Message) error {
	rewritten, found := resolver.Resolve(m.Content, index)
	if len(found) == 0 {
		return nil
	}

	// Without the manage-messages + manage-webhooks pair (or without a live
	// webhook) the repost degrades to sending the resolved emojis as the bot.
	fallback := func() error {
		tags := make([]string, len(found))
		for i, e := range found {
			tags[i] = e.Tag()
		}
		return sender.SendPlain(m.ChannelID, strings.Join(tags, " "))
	}

	if !sender.CanImpersonate(m.ChannelID) {
		return fallback()
	}

	wh, err := sender.GuildWebhook(m.GuildID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fallback()
	}

	// The webhook has to point at this channel before the send goes out
	if err := sender.Relocate(wh, m.ChannelID); err != nil {
		return err
	}

	files, cleanup, err := downloadAttachments(sender, m.Attachments)
	if err != nil {
		return err
	}
	defer cleanup()

	replacement, err := sender.Execute(wh, &discordgo.WebhookParams{
		Content:   escapeMentions(rewritten),
		Username:  authorDisplayName(m),
		AvatarURL: authorAvatarURL(m),
		Files:     files,
	})
	if err != nil {
		return err
	}

	reg.Register(&FakedMessage{
		Kind:          FakedPlain,
		Original:      m,
		ReplacementID: replacement.ID,
		ChannelID:     m.ChannelID,
		WebhookID:     wh.ID,
		WebhookToken:  wh.Token,
	})

	// Registration strictly precedes this delete so a racing edit or delete
	// never sees an unregistered replacement. A failed delete is non-fatal.
	if err := sender.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("[Repost] Failed to delete original message %s: %v", m.ID, err)
	}
	return nil
}

// downloadAttachments re-downloads the original attachments so they can be
// re-uploaded on the replacement. Spoiler flags survive through the
// SPOILER_ filename convention.
func downloadAttachments(sender hookSender, attachments []*discordgo.MessageAttachment) ([]*discordgo.File, func(), error) {
	var bodies []io.ReadCloser
	cleanup := func() {
		for _, body := range bodies {
			body.Close()
		}
	}

	var files []*discordgo.File
	for _, att := range attachments {
		body, err := sender.Download(att.URL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		bodies = append(bodies, body)
		files = append(files, &discordgo.File{
			Name:        att.Filename,
			ContentType: att.ContentType,
			Reader:      body,
		})
	}
	return files, cleanup, nil
}
