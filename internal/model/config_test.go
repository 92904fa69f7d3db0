package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Reminders.LeadMinutes != 15 {
		t.Errorf("lead minutes = %d, want 15", cfg.Reminders.LeadMinutes)
	}
	if cfg.Reminders.Queue != "reminders" {
		t.Errorf("queue = %q, want reminders", cfg.Reminders.Queue)
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if !cfg.Notifications.Enabled {
		t.Error("notifications default off, want on")
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := defaultAppConfig()
	want.DBPath = "/tmp/test.db"
	want.Redis.Addr = "127.0.0.1:7777"
	want.Reminders.LeadMinutes = 30
	want.Calendar.BaseURL = "https://calendar.example.com"

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.DBPath != want.DBPath {
		t.Errorf("db path = %q, want %q", got.DBPath, want.DBPath)
	}
	if got.Redis.Addr != want.Redis.Addr {
		t.Errorf("redis addr = %q, want %q", got.Redis.Addr, want.Redis.Addr)
	}
	if got.Reminders.LeadMinutes != 30 {
		t.Errorf("lead minutes = %d, want 30", got.Reminders.LeadMinutes)
	}
	if got.Calendar.BaseURL != want.Calendar.BaseURL {
		t.Errorf("calendar base url = %q, want %q", got.Calendar.BaseURL, want.Calendar.BaseURL)
	}
}
