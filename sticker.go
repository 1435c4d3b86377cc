package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/darui3018823/discordgo"

	"github.com/u16-io/EmoteWizard4Discord/model"
	"github.com/u16-io/EmoteWizard4Discord/service"
)

// cmdSticker handles sticker <name> | sticker create <name> | sticker delete <name>
func (b *Bot) cmdSticker(m *discordgo.Message, args []string) {
	if len(args) == 0 {
		b.notify(m.ChannelID, ":x: Usage: sticker <name> | sticker create <name> | sticker delete <name>")
		return
	}

	switch args[0] {
	case "create", "add", "new":
		if len(args) < 2 {
			b.notify(m.ChannelID, ":x: Give the sticker a name")
			return
		}
		b.createSticker(m, args[1])
	case "delete", "remove":
		if len(args) < 2 {
			b.notify(m.ChannelID, ":x: Which sticker should I delete?")
			return
		}
		b.deleteSticker(m, args[1])
	default:
		b.sendSticker(m, args[0])
	}
}

func (b *Bot) createSticker(m *discordgo.Message, name string) {
	if len(m.Attachments) == 0 {
		b.notify(m.ChannelID, ":x: Attach the sticker image to your message")
		return
	}
	att := m.Attachments[0]
	if !strings.HasPrefix(att.ContentType, "image/") {
		b.notify(m.ChannelID, ":x: The sticker must be an image (static and animated both work)")
		return
	}

	body, err := b.Download(att.URL)
	if err != nil {
		b.reportError("sticker create", m, err)
		return
	}
	defer body.Close()

	path := filepath.Join(b.conf.Storage.StickerDir, m.ID+"_"+att.Filename)
	file, err := os.Create(path)
	if err != nil {
		b.reportError("sticker create", m, err)
		return
	}
	if _, err := file.ReadFrom(body); err != nil {
		file.Close()
		os.Remove(path)
		b.reportError("sticker create", m, err)
		return
	}
	file.Close()

	if err := service.CreateSticker(m.Author.ID, name, path); err != nil {
		os.Remove(path)
		if errors.Is(err, service.ErrStickerExists) {
			b.notify(m.ChannelID, ":x: The name `"+name+"` is already in use")
			return
		}
		b.reportError("sticker create", m, err)
		return
	}

	b.notify(m.ChannelID, ":white_check_mark: Created the sticker `"+name+"`")
}

func (b *Bot) deleteSticker(m *discordgo.Message, name string) {
	sticker, err := service.DeleteSticker(m.Author.ID, name)
	if err != nil {
		if errors.Is(err, service.ErrStickerNotFound) {
			b.notify(m.ChannelID, ":x: You don't own any stickers by the name `"+name+"`")
			return
		}
		b.reportError("sticker delete", m, err)
		return
	}

	if err := os.Remove(sticker.ContentPath); err != nil && !os.IsNotExist(err) {
		log.Printf("[Sticker] Failed to remove %s: %v", sticker.ContentPath, err)
	}
	b.notify(m.ChannelID, ":white_check_mark: Deleted the sticker `"+name+"`")
}

// sendSticker delivers a sticker through the same impersonation-or-direct
// decision as the repost pipeline. Impersonated sends register a
// sticker-kind faked record, which can be deleted but never edited.
func (b *Bot) sendSticker(m *discordgo.Message, name string) {
	sticker, err := service.GetSticker(name)
	if err != nil {
		if errors.Is(err, service.ErrStickerNotFound) {
			b.notify(m.ChannelID, ":x: No sticker with that name")
			return
		}
		b.reportError("sticker", m, err)
		return
	}

	wh, err := b.GuildWebhook(m.GuildID)
	if err != nil {
		b.reportError("sticker", m, err)
		return
	}

	if wh == nil || !b.CanImpersonate(m.ChannelID) {
		b.sendStickerPlain(m, sticker)
		return
	}

	if err := b.Relocate(wh, m.ChannelID); err != nil {
		b.reportError("sticker", m, err)
		return
	}

	file, err := os.Open(sticker.ContentPath)
	if err != nil {
		b.reportError("sticker", m, err)
		return
	}
	defer file.Close()

	replacement, err := b.Execute(wh, &discordgo.WebhookParams{
		Username:  authorDisplayName(m),
		AvatarURL: authorAvatarURL(m),
		Files:     []*discordgo.File{{Name: filepath.Base(sticker.ContentPath), Reader: file}},
	})
	if err != nil {
		b.reportError("sticker", m, err)
		return
	}

	b.faked.Register(&FakedMessage{
		Kind:          FakedSticker,
		Original:      m,
		ReplacementID: replacement.ID,
		ChannelID:     m.ChannelID,
		WebhookID:     wh.ID,
		WebhookToken:  wh.Token,
	})

	if err := b.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("[Sticker] Failed to delete original message %s: %v", m.ID, err)
	}
}

func (b *Bot) sendStickerPlain(m *discordgo.Message, sticker *model.Sticker) {
	file, err := os.Open(sticker.ContentPath)
	if err != nil {
		b.reportError("sticker", m, err)
		return
	}
	defer file.Close()

	_, err = b.session.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{Name: filepath.Base(sticker.ContentPath), Reader: file}},
	})
	if err != nil {
		b.reportError("sticker", m, err)
	}
}
