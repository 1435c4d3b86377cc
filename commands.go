package main

import (
	"encoding/json"
	"strings"

	"github.com/darui3018823/discordgo"
)

// onMessageCreate is the single inbound message handler: waiting flows get
// first pick, then command dispatch, then the repost pipeline.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if b.waiters.feedMessage(m.Message) {
		return
	}
	if m.GuildID == "" {
		// DMs only matter to waiting edit flows
		return
	}

	prefix := b.prefixes.Get(m.GuildID)
	if strings.HasPrefix(m.Content, prefix) {
		if b.dispatch(m.Message, strings.TrimPrefix(m.Content, prefix)) {
			return
		}
	}

	if b.ignored.Load() {
		return
	}
	if err := repostMessage(b, b.faked, b.resolver, b, m.Message); err != nil {
		b.reportError("repost", m.Message, err)
	}
}

// dispatch routes a prefixed message to its command handler. Unrecognized
// command words fall back to ordinary message handling.
func (b *Bot) dispatch(m *discordgo.Message, rest string) bool {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	tail := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), cmd))

	switch cmd {
	case "webhook":
		b.cmdWebhook(m, args)
	case "reply":
		b.cmdReply(m, args, tail)
	case "sticker":
		b.cmdSticker(m, args)
	case "edit":
		b.cmdEdit(m, args, tail)
	case "delete":
		b.cmdDelete(m, args)
	case "react":
		b.cmdReact(m, args)
	case "embed":
		b.cmdEmbed(m, tail)
	case "prefix":
		b.cmdPrefix(m, args)
	case "ignore":
		b.cmdIgnore(m)
	default:
		return false
	}
	return true
}

// cmdEmbed sends a user-supplied JSON embed through the impersonation path
func (b *Bot) cmdEmbed(m *discordgo.Message, tail string) {
	var em discordgo.MessageEmbed
	if err := json.Unmarshal([]byte(strings.Trim(tail, "`")), &em); err != nil {
		b.notify(m.ChannelID, ":x: Make sure you're using valid JSON syntax")
		return
	}

	wh, err := b.GuildWebhook(m.GuildID)
	if err != nil {
		b.reportError("embed", m, err)
		return
	}

	if wh == nil || !b.CanImpersonate(m.ChannelID) {
		if _, err := b.session.ChannelMessageSendEmbed(m.ChannelID, &em); err != nil {
			b.notify(m.ChannelID, ":x: Failed to send your embed. Make sure you're using valid Discord objects.")
		}
		return
	}

	if err := b.Relocate(wh, m.ChannelID); err != nil {
		b.reportError("embed", m, err)
		return
	}

	_, err = b.Execute(wh, &discordgo.WebhookParams{
		Embeds:    []*discordgo.MessageEmbed{&em},
		Username:  authorDisplayName(m),
		AvatarURL: authorAvatarURL(m),
	})
	if err != nil {
		b.notify(m.ChannelID, ":x: Failed to send your embed. Make sure you're using valid Discord objects.")
		return
	}

	if err := b.DeleteMessage(m.ChannelID, m.ID); err != nil {
		b.reportError("embed", m, err)
	}
}

// cmdPrefix handles prefix <new prefix>
func (b *Bot) cmdPrefix(m *discordgo.Message, args []string) {
	perms, err := b.session.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageServer == 0 {
		b.notify(m.ChannelID, ":x: You need the Manage Server permission to do that")
		return
	}
	if len(args) < 1 {
		b.notify(m.ChannelID, "The prefix here is `"+b.prefixes.Get(m.GuildID)+"`")
		return
	}
	if err := b.prefixes.Set(m.GuildID, args[0]); err != nil {
		b.reportError("prefix", m, err)
		return
	}
	b.notify(m.ChannelID, ":white_check_mark: Prefix set to `"+args[0]+"`")
}

// cmdIgnore toggles the global repost pause
func (b *Bot) cmdIgnore(m *discordgo.Message) {
	perms, err := b.session.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageServer == 0 {
		b.notify(m.ChannelID, ":x: You need the Manage Server permission to do that")
		return
	}
	if b.ignored.Load() {
		b.ignored.Store(false)
		b.notify(m.ChannelID, ":white_check_mark: Reposting messages again")
		return
	}
	b.ignored.Store(true)
	b.notify(m.ChannelID, ":white_check_mark: Ignoring messages for now")
}
