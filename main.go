package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/darui3018823/discordgo"

	"github.com/u16-io/EmoteWizard4Discord/config"
	"github.com/u16-io/EmoteWizard4Discord/db"
	"github.com/u16-io/EmoteWizard4Discord/service"
)

func main() {
	if err := run(config.GetConf()); err != nil {
		log.Fatal(err)
	}
}

func run(conf *config.Config) error {
	if err := db.Init(conf.Storage.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := os.MkdirAll(conf.Storage.StickerDir, 0755); err != nil {
		return fmt.Errorf("failed to create sticker dir: %w", err)
	}

	prefixes, err := service.OpenPrefixStore(conf.Storage.PrefixDir, conf.Command.DefaultPrefix)
	if err != nil {
		return err
	}
	defer prefixes.Close()

	s, err := discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildEmojis |
		discordgo.IntentsGuildWebhooks |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot, err := NewBot(s, conf, prefixes)
	if err != nil {
		return err
	}

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer s.Close()

	log.Printf("[Main] %s is online (ID: %s, %d avatar emojis cached)",
		s.State.User.Username, s.State.User.ID, bot.avatars.Len())

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Printf("[Main] Shutting down %s...", s.State.User.Username)
	return nil
}
