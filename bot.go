package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/darui3018823/discordgo"

	"github.com/u16-io/EmoteWizard4Discord/config"
	"github.com/u16-io/EmoteWizard4Discord/model"
	"github.com/u16-io/EmoteWizard4Discord/service"
)

// Bot wires the session to the process-scoped state: the webhook config
// store, the avatar emoji cache, the faked-message registry and the prefix
// store. All handlers hang off this struct; there are no ambient singletons.
type Bot struct {
	session  *discordgo.Session
	conf     *config.Config
	resolver *Resolver
	webhooks *service.WebhookConfigStore
	avatars  *service.AvatarEmojiCache
	faked    *FakedRegistry
	prefixes *service.PrefixStore
	waiters  *waiterHub

	// ignored pauses the repost pipeline globally while commands keep working
	ignored atomic.Bool

	httpClient *http.Client
}

// NewBot builds the bot around an opened-config session
func NewBot(s *discordgo.Session, conf *config.Config, prefixes *service.PrefixStore) (*Bot, error) {
	b := &Bot{
		session:    s,
		conf:       conf,
		resolver:   NewResolver(conf.Emoji.TokenMode),
		webhooks:   service.NewWebhookConfigStore(),
		faked:      NewFakedRegistry(),
		prefixes:   prefixes,
		waiters:    newWaiterHub(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	host := &emojiGuild{session: s, guildID: conf.Discord.EmojiGuildID}
	avatars, err := service.NewAvatarEmojiCache(host, fetchAvatar, renderAvatarEmoji)
	if err != nil {
		return nil, err
	}
	b.avatars = avatars

	s.AddHandler(b.onMessageCreate)
	s.AddHandler(b.onReactionAdd)
	return b, nil
}

// EmojiByName finds an emoji by exact name across every guild the bot sees
func (b *Bot) EmojiByName(name string) (model.EmojiRef, bool) {
	b.session.State.RLock()
	defer b.session.State.RUnlock()

	for _, guild := range b.session.State.Guilds {
		for _, e := range guild.Emojis {
			if e.Name == name {
				return model.EmojiRef{ID: e.ID, Name: e.Name, Animated: e.Animated}, true
			}
		}
	}
	return model.EmojiRef{}, false
}

// CanImpersonate reports whether the bot holds both permissions the
// impersonation path needs in the channel
func (b *Bot) CanImpersonate(channelID string) bool {
	perms, err := b.session.State.UserChannelPermissions(b.session.State.User.ID, channelID)
	if err != nil {
		log.Printf("[Bot] Failed to read channel permissions for %s: %v", channelID, err)
		return false
	}
	return perms&discordgo.PermissionManageMessages != 0 && perms&discordgo.PermissionManageWebhooks != 0
}

// GuildWebhook resolves the guild's bound webhook. An unset binding or a
// webhook deleted on the platform side both come back as nil; only store
// errors propagate.
func (b *Bot) GuildWebhook(guildID string) (*discordgo.Webhook, error) {
	cfg, err := b.webhooks.Get(guildID)
	if err != nil {
		return nil, err
	}
	if cfg.WebhookID == "" {
		return nil, nil
	}

	wh, err := b.session.Webhook(cfg.WebhookID)
	if err != nil {
		if !isNotFound(err) {
			log.Printf("[Bot] Failed to fetch webhook %s: %v", cfg.WebhookID, err)
		}
		return nil, nil
	}
	return wh, nil
}

// Relocate moves the webhook to the target channel. A webhook already bound
// to the channel is left alone.
func (b *Bot) Relocate(wh *discordgo.Webhook, channelID string) error {
	if wh.ChannelID == channelID {
		return nil
	}
	if _, err := b.session.WebhookEdit(wh.ID, "", "", channelID); err != nil {
		return fmt.Errorf("failed to move webhook %s to channel %s: %w", wh.ID, channelID, err)
	}
	wh.ChannelID = channelID
	return nil
}

// Execute sends through the webhook and waits for the created message
func (b *Bot) Execute(wh *discordgo.Webhook, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return b.session.WebhookExecute(wh.ID, wh.Token, true, params)
}

// SendPlain sends an ordinary bot message
func (b *Bot) SendPlain(channelID, content string) error {
	_, err := b.session.ChannelMessageSend(channelID, content)
	return err
}

// DeleteMessage deletes a channel message; already-gone messages are fine
func (b *Bot) DeleteMessage(channelID, messageID string) error {
	if err := b.session.ChannelMessageDelete(channelID, messageID); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// Download streams a CDN attachment
func (b *Bot) Download(url string) (io.ReadCloser, error) {
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download attachment, status: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// emojiGuild adapts the emoji-hosting guild to service.EmojiHost
type emojiGuild struct {
	session *discordgo.Session
	guildID string
}

func (g *emojiGuild) EmojiByID(id string) (model.EmojiRef, bool) {
	emojis, err := g.session.GuildEmojis(g.guildID)
	if err != nil {
		log.Printf("[AvatarEmoji] Failed to list emojis for guild %s: %v", g.guildID, err)
		return model.EmojiRef{}, false
	}
	for _, e := range emojis {
		if e.ID == id {
			return model.EmojiRef{ID: e.ID, Name: e.Name, Animated: e.Animated}, true
		}
	}
	return model.EmojiRef{}, false
}

func (g *emojiGuild) EmojiCount() (int, error) {
	emojis, err := g.session.GuildEmojis(g.guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to list emojis for guild %s: %w", g.guildID, err)
	}
	return len(emojis), nil
}

func (g *emojiGuild) CreateEmoji(name string, image []byte) (model.EmojiRef, error) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	e, err := g.session.GuildEmojiCreate(g.guildID, &discordgo.EmojiParams{Name: name, Image: uri})
	if err != nil {
		return model.EmojiRef{}, err
	}
	return model.EmojiRef{ID: e.ID, Name: e.Name, Animated: e.Animated}, nil
}

func (g *emojiGuild) DeleteEmoji(id string) error {
	if err := g.session.GuildEmojiDelete(g.guildID, id); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// isNotFound reports whether a REST error means the resource is gone
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
