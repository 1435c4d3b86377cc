package main

import (
	"regexp"

	"github.com/darui3018823/discordgo"
)

var (
	webhookURLPattern = regexp.MustCompile(`https://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/api/webhooks/([0-9]+)/.+`)
	webhookIDPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// parseWebhookArg accepts a raw webhook ID or a full webhook URL
func parseWebhookArg(arg string) (string, bool) {
	if webhookIDPattern.MatchString(arg) {
		return arg, true
	}
	if matches := webhookURLPattern.FindStringSubmatch(arg); matches != nil {
		return matches[1], true
	}
	return "", false
}

// cmdWebhook handles webhook [set <id|url> | create | unbind]
func (b *Bot) cmdWebhook(m *discordgo.Message, args []string) {
	perms, err := b.session.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageWebhooks == 0 {
		b.notify(m.ChannelID, ":x: You need the Manage Webhooks permission to do that")
		return
	}

	cfg, err := b.webhooks.Get(m.GuildID)
	if err != nil {
		b.reportError("webhook", m, err)
		return
	}

	if len(args) == 0 {
		if cfg.WebhookID == "" {
			b.notify(m.ChannelID, ":x: No webhook set")
			return
		}
		wh, err := b.session.Webhook(cfg.WebhookID)
		if err != nil {
			b.notify(m.ChannelID, ":x: The stored webhook no longer exists")
			return
		}
		b.notify(m.ChannelID, "The webhook set is `"+wh.Name+"` ("+wh.ID+")")
		return
	}

	switch args[0] {
	case "set":
		if len(args) < 2 {
			b.notify(m.ChannelID, ":x: Give me a webhook ID or URL")
			return
		}
		id, ok := parseWebhookArg(args[1])
		if !ok {
			b.notify(m.ChannelID, ":x: That is not a webhook URL or ID")
			return
		}
		wh, err := b.session.Webhook(id)
		if err != nil || wh.GuildID != m.GuildID {
			b.notify(m.ChannelID, ":x: That webhook does not exist")
			return
		}
		if err := b.webhooks.SetWebhook(cfg, wh.ID); err != nil {
			b.reportError("webhook set", m, err)
			return
		}
		b.notify(m.ChannelID, ":white_check_mark: Webhook set")

	case "create":
		wh, err := b.session.WebhookCreate(m.ChannelID, "EmoteWizard Hook", "")
		if err != nil {
			b.reportError("webhook create", m, err)
			return
		}
		if err := b.webhooks.SetWebhook(cfg, wh.ID); err != nil {
			b.reportError("webhook create", m, err)
			return
		}
		b.notify(m.ChannelID, ":white_check_mark: Webhook created")

	case "unbind", "unset":
		if err := b.webhooks.SetWebhook(cfg, ""); err != nil {
			b.reportError("webhook unbind", m, err)
			return
		}
		b.notify(m.ChannelID, ":white_check_mark: Unbound webhook")

	default:
		b.notify(m.ChannelID, ":x: Unknown webhook subcommand `"+args[0]+"`")
	}
}
