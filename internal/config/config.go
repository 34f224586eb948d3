package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv          = "SHORTS_PUBLISHER_CONFIG"
	chatGPTAPIKeyEnv       = "CHATGPT_API_KEY"
	chatGPTModelEnv        = "CHATGPT_MODEL"
	telegramTokenEnv       = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv      = "TELEGRAM_CHAT_ID"
	youtubeClientIDEnv     = "YOUTUBE_CLIENT_ID"
	youtubeClientSecretEnv = "YOUTUBE_CLIENT_SECRET"
	youtubeRefreshTokenEnv = "YOUTUBE_REFRESH_TOKEN"
	redditClientIDEnv      = "REDDIT_CLIENT_ID"
	redditClientSecretEnv  = "REDDIT_CLIENT_SECRET"
	redditUsernameEnv      = "REDDIT_USERNAME"
	redditPasswordEnv      = "REDDIT_PASSWORD"
	redditUserAgentEnv     = "REDDIT_USER_AGENT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Dirs          DirConfig          `yaml:"dirs"`
	Upload        UploadConfig       `yaml:"upload"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	YouTube       YouTubeConfig      `yaml:"youtube"`
	Reddit        RedditConfig       `yaml:"reddit"`
	Accounts      []AccountConfig    `yaml:"accounts"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DirConfig describes the working directories and the state file location.
type DirConfig struct {
	Download  string `yaml:"download"`
	Processed string `yaml:"processed"`
	Logs      string `yaml:"logs"`
	Assets    string `yaml:"assets"`
	StateFile string `yaml:"stateFile"`
}

// UploadConfig controls publish behavior and the daily quota.
type UploadConfig struct {
	MaxDaily   int    `yaml:"maxDaily"`
	CategoryID string `yaml:"categoryId"`
	Privacy    string `yaml:"privacy"`
}

// SchedulerConfig defines when ingest and upload slots fire.
type SchedulerConfig struct {
	IngestAt    string         `yaml:"ingestAt"`
	UploadSlots []string       `yaml:"uploadSlots"`
	Timezone    string         `yaml:"timezone"`
	location    *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to run the operator bot.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// ChatGPTConfig defines how to contact the metadata-generation API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// YouTubeConfig carries OAuth2 credentials for the publish client.
type YouTubeConfig struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RefreshToken string `yaml:"refreshToken"`
}

// RedditConfig carries credentials for the reddit source strategy. All fields
// are optional; without them the strategy falls back to read-only access.
type RedditConfig struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	UserAgent    string `yaml:"userAgent"`
}

// AccountConfig describes a single source account with its scraper strategy.
type AccountConfig struct {
	Name    string            `yaml:"name"`
	Scraper string            `yaml:"scraper"`
	Options map[string]string `yaml:"options"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Validate reports missing required configuration. A non-nil result is fatal
// at startup.
func (c Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no source accounts configured")
	}
	if c.ChatGPT.APIKey == "" {
		return fmt.Errorf("%s is not set", chatGPTAPIKeyEnv)
	}
	if c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "" || c.YouTube.RefreshToken == "" {
		return fmt.Errorf("%s, %s and %s must all be set", youtubeClientIDEnv, youtubeClientSecretEnv, youtubeRefreshTokenEnv)
	}
	if c.Upload.MaxDaily <= 0 {
		return fmt.Errorf("upload.maxDaily must be positive, got %d", c.Upload.MaxDaily)
	}
	if _, _, err := ParseSlot(c.Scheduler.IngestAt); err != nil {
		return fmt.Errorf("scheduler.ingestAt: %w", err)
	}
	if len(c.Scheduler.UploadSlots) == 0 {
		return fmt.Errorf("no upload slots configured")
	}
	for _, slot := range c.Scheduler.UploadSlots {
		if _, _, err := ParseSlot(slot); err != nil {
			return fmt.Errorf("scheduler.uploadSlots: %w", err)
		}
	}
	return nil
}

// ParseSlot splits an HH:MM slot label into its hour and minute.
func ParseSlot(slot string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(slot), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid slot %q, want HH:MM", slot)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid slot hour %q", slot)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid slot minute %q", slot)
	}
	return hour, minute, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(youtubeClientIDEnv); v != "" {
		c.YouTube.ClientID = v
	}
	if v := os.Getenv(youtubeClientSecretEnv); v != "" {
		c.YouTube.ClientSecret = v
	}
	if v := os.Getenv(youtubeRefreshTokenEnv); v != "" {
		c.YouTube.RefreshToken = v
	}
	if v := os.Getenv(redditClientIDEnv); v != "" {
		c.Reddit.ClientID = v
	}
	if v := os.Getenv(redditClientSecretEnv); v != "" {
		c.Reddit.ClientSecret = v
	}
	if v := os.Getenv(redditUsernameEnv); v != "" {
		c.Reddit.Username = v
	}
	if v := os.Getenv(redditPasswordEnv); v != "" {
		c.Reddit.Password = v
	}
	if v := os.Getenv(redditUserAgentEnv); v != "" {
		c.Reddit.UserAgent = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Dirs.Download != "" {
		base.Dirs.Download = override.Dirs.Download
	}
	if override.Dirs.Processed != "" {
		base.Dirs.Processed = override.Dirs.Processed
	}
	if override.Dirs.Logs != "" {
		base.Dirs.Logs = override.Dirs.Logs
	}
	if override.Dirs.Assets != "" {
		base.Dirs.Assets = override.Dirs.Assets
	}
	if override.Dirs.StateFile != "" {
		base.Dirs.StateFile = override.Dirs.StateFile
	}

	if override.Upload.MaxDaily != 0 {
		base.Upload.MaxDaily = override.Upload.MaxDaily
	}
	if override.Upload.CategoryID != "" {
		base.Upload.CategoryID = override.Upload.CategoryID
	}
	if override.Upload.Privacy != "" {
		base.Upload.Privacy = override.Upload.Privacy
	}

	if override.Scheduler.IngestAt != "" {
		base.Scheduler.IngestAt = override.Scheduler.IngestAt
	}
	if len(override.Scheduler.UploadSlots) > 0 {
		base.Scheduler.UploadSlots = override.Scheduler.UploadSlots
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	if override.YouTube.ClientID != "" {
		base.YouTube.ClientID = override.YouTube.ClientID
	}
	if override.YouTube.ClientSecret != "" {
		base.YouTube.ClientSecret = override.YouTube.ClientSecret
	}
	if override.YouTube.RefreshToken != "" {
		base.YouTube.RefreshToken = override.YouTube.RefreshToken
	}

	if override.Reddit.UserAgent != "" {
		base.Reddit = override.Reddit
	}

	if len(override.Accounts) > 0 {
		base.Accounts = override.Accounts
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Dirs: DirConfig{
			Download:  "downloads",
			Processed: "processed",
			Logs:      "logs",
			Assets:    "assets",
			StateFile: "uploaded.json",
		},
		Upload: UploadConfig{
			MaxDaily:   3,
			CategoryID: "24",
			Privacy:    "public",
		},
		Scheduler: SchedulerConfig{
			IngestAt:    "01:00",
			UploadSlots: []string{"06:00", "12:00", "17:00"},
			Timezone:    defaultTimezone,
			location:    tz,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
