package main

import (
	"fmt"
	"log"
	"time"

	"github.com/darui3018823/discordgo"
)

// noticeTTL is how long transient user notices stay visible
const noticeTTL = 8 * time.Second

// notify sends a short user-visible notice that deletes itself
func (b *Bot) notify(channelID, content string) {
	msg, err := b.session.ChannelMessageSend(channelID, content)
	if err != nil {
		log.Printf("[Notify] Failed to send notice: %v", err)
		return
	}
	time.AfterFunc(noticeTTL, func() {
		if err := b.session.ChannelMessageDelete(channelID, msg.ID); err != nil && !isNotFound(err) {
			log.Printf("[Notify] Failed to expire notice %s: %v", msg.ID, err)
		}
	})
}

// reportError tells the user something broke and forwards the detail to the
// operator console channel
func (b *Bot) reportError(command string, m *discordgo.Message, err error) {
	log.Printf("[Error] %s: %v", command, err)
	b.notify(m.ChannelID, ":x: An unexpected error occurred")

	if b.conf.Discord.ConsoleChannel == "" {
		return
	}

	em := &discordgo.MessageEmbed{
		Title:       "Command Error",
		Description: fmt.Sprintf("```%v```", err),
		Color:       0xE74C3C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Command", Value: command, Inline: true},
			{Name: "Message", Value: jumpURL(m.GuildID, m.ChannelID, m.ID), Inline: true},
		},
	}
	if _, err := b.session.ChannelMessageSendEmbed(b.conf.Discord.ConsoleChannel, em); err != nil {
		log.Printf("[Error] Failed to report to console channel: %v", err)
	}
}
