package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := defaultConfig()
	cfg.Accounts = []AccountConfig{{Name: "funny_clips", Scraper: "instagram"}}
	cfg.ChatGPT.APIKey = "key"
	cfg.YouTube = YouTubeConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "token"}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Upload.MaxDaily != 3 {
		t.Errorf("MaxDaily = %d, want 3", cfg.Upload.MaxDaily)
	}
	if cfg.Dirs.StateFile != "uploaded.json" {
		t.Errorf("StateFile = %q", cfg.Dirs.StateFile)
	}
	if cfg.Scheduler.IngestAt != "01:00" {
		t.Errorf("IngestAt = %q", cfg.Scheduler.IngestAt)
	}
	if len(cfg.Scheduler.UploadSlots) != 3 {
		t.Errorf("UploadSlots = %v", cfg.Scheduler.UploadSlots)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Errorf("Location = %v", cfg.Scheduler.Location())
	}
}

func TestParseSlot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slot    string
		hour    int
		minute  int
		wantErr bool
	}{
		{"06:00", 6, 0, false},
		{"17:45", 17, 45, false},
		{" 12:30 ", 12, 30, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		hour, minute, err := ParseSlot(tt.slot)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSlot(%q): expected error", tt.slot)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSlot(%q): %v", tt.slot, err)
			continue
		}
		if hour != tt.hour || minute != tt.minute {
			t.Errorf("ParseSlot(%q) = %d:%d, want %d:%d", tt.slot, hour, minute, tt.hour, tt.minute)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no accounts", func(c *Config) { c.Accounts = nil }},
		{"no chatgpt key", func(c *Config) { c.ChatGPT.APIKey = "" }},
		{"no youtube refresh token", func(c *Config) { c.YouTube.RefreshToken = "" }},
		{"zero max daily", func(c *Config) { c.Upload.MaxDaily = 0 }},
		{"bad ingest slot", func(c *Config) { c.Scheduler.IngestAt = "25:00" }},
		{"no upload slots", func(c *Config) { c.Scheduler.UploadSlots = nil }},
		{"bad upload slot", func(c *Config) { c.Scheduler.UploadSlots = []string{"12:99"} }},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
upload:
  maxDaily: 5
scheduler:
  uploadSlots: ["09:00", "21:00"]
accounts:
  - name: funny_clips
    scraper: instagram
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Upload.MaxDaily != 5 {
		t.Errorf("MaxDaily = %d, want 5", cfg.Upload.MaxDaily)
	}
	if len(cfg.Scheduler.UploadSlots) != 2 || cfg.Scheduler.UploadSlots[0] != "09:00" {
		t.Errorf("UploadSlots = %v", cfg.Scheduler.UploadSlots)
	}
	if cfg.Scheduler.IngestAt != "01:00" {
		t.Errorf("IngestAt = %q, default should survive merge", cfg.Scheduler.IngestAt)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].Scraper != "instagram" {
		t.Errorf("Accounts = %v", cfg.Accounts)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(chatGPTAPIKeyEnv, "env-key")
	t.Setenv(youtubeClientIDEnv, "env-client")
	t.Setenv(telegramTokenEnv, "env-token")

	cfg := Load()
	if cfg.ChatGPT.APIKey != "env-key" {
		t.Errorf("APIKey = %q", cfg.ChatGPT.APIKey)
	}
	if cfg.YouTube.ClientID != "env-client" {
		t.Errorf("ClientID = %q", cfg.YouTube.ClientID)
	}
	if cfg.Notifications.Telegram.BotToken != "env-token" {
		t.Errorf("BotToken = %q", cfg.Notifications.Telegram.BotToken)
	}
}

func TestBindTimezoneFallsBackOnUnknownZone(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Scheduler.Timezone = "Mars/Olympus_Mons"
	cfg.bindTimezone()

	if cfg.Scheduler.Location().String() != "UTC" {
		t.Errorf("Location = %v, want UTC fallback", cfg.Scheduler.Location())
	}
}
