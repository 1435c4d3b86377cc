package config

import (
	"log"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	conf *Config
	once sync.Once
)

// Config 全ての設定を格納
type Config struct {
	Discord struct {
		Token          string `toml:"-"`
		EmojiGuildID   string `toml:"emoji_guild_id"`
		ConsoleChannel string `toml:"console_channel"`
	} `toml:"discord"`

	Emoji struct {
		// TokenMode selects which emoji token grammars are active:
		// "delimited" (;name;), "colon" (:name:) or "both".
		TokenMode string `toml:"token_mode"`
	} `toml:"emoji"`

	Storage struct {
		DatabasePath string `toml:"database_path"`
		StickerDir   string `toml:"sticker_dir"`
		PrefixDir    string `toml:"prefix_dir"`
	} `toml:"storage"`

	Command struct {
		DefaultPrefix string `toml:"default_prefix"`
	} `toml:"command"`
}

func load() {
	// .env ファイルが存在すれば読み込む（存在しなくても環境変数から読める）
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	conf = &Config{}
	conf.Emoji.TokenMode = "delimited"
	conf.Storage.DatabasePath = "./emotewizard.db"
	conf.Storage.StickerDir = "./stickers"
	conf.Storage.PrefixDir = "./prefixes"
	conf.Command.DefaultPrefix = "e!"

	if path := configPath(); path != "" {
		if _, err := toml.DecodeFile(path, conf); err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}
	}

	conf.Discord.Token = os.Getenv("DISCORD_TOKEN")
	if v := os.Getenv("EMOJI_GUILD_ID"); v != "" {
		conf.Discord.EmojiGuildID = v
	}
	if v := os.Getenv("CONSOLE_CHANNEL_ID"); v != "" {
		conf.Discord.ConsoleChannel = v
	}

	if conf.Discord.Token == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}
	switch conf.Emoji.TokenMode {
	case "delimited", "colon", "both":
	default:
		log.Fatalf("Invalid emoji token_mode %q (want delimited, colon or both)", conf.Emoji.TokenMode)
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml"
	}
	return ""
}

// GetConf is return config
func GetConf() *Config {
	once.Do(load)
	return conf
}
