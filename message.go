package main

import (
	"fmt"
	"regexp"

	"github.com/darui3018823/discordgo"
)

var mentionPattern = regexp.MustCompile(`@(everyone|here|[!&]?[0-9]{17,20})`)

// escapeMentions neutralizes every mention in content with a zero-width
// space so reposted text can never ping on the author's behalf
func escapeMentions(content string) string {
	return mentionPattern.ReplaceAllString(content, "@​$1")
}

// authorDisplayName prioritizes Nickname -> Global Name -> Username
func authorDisplayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// authorAvatarURL prioritizes Guild Avatar -> User Avatar -> Default
func authorAvatarURL(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Avatar != "" {
		return fmt.Sprintf("https://cdn.discordapp.com/guilds/%s/users/%s/avatars/%s.png?size=1024", m.GuildID, m.Author.ID, m.Member.Avatar)
	}
	return m.Author.AvatarURL("1024")
}

// jumpURL builds the jump link for a guild message
func jumpURL(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
