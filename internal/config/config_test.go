package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := defaultConfig()
	if err != nil {
		t.Fatalf("defaultConfig: %v", err)
	}
	if cfg.PollInterval <= 0 {
		t.Errorf("PollInterval = %v, want > 0", cfg.PollInterval)
	}
	if cfg.NetworkFile == "" {
		t.Error("NetworkFile is empty")
	}
}

func TestOverlayFromViperFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mediactl.yaml")
	contents := "player_base_url: http://player.local:8080\npoll_interval: 5s\nmax_history_count: 7\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := defaultConfig()
	if err != nil {
		t.Fatalf("defaultConfig: %v", err)
	}
	if err := overlayFromViper(&cfg, path); err != nil {
		t.Fatalf("overlayFromViper: %v", err)
	}

	if cfg.PlayerBaseURL != "http://player.local:8080" {
		t.Errorf("PlayerBaseURL = %q", cfg.PlayerBaseURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.MaxHistoryCount != 7 {
		t.Errorf("MaxHistoryCount = %d, want 7", cfg.MaxHistoryCount)
	}
	if cfg.LookaheadCount == 0 {
		t.Error("LookaheadCount unexpectedly zeroed by the overlay")
	}
}

func TestOverlayFromViperMissingFileIsNotAnError(t *testing.T) {
	cfg, err := defaultConfig()
	if err != nil {
		t.Fatalf("defaultConfig: %v", err)
	}
	if err := overlayFromViper(&cfg, filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("overlayFromViper: %v", err)
	}
}

func TestLoadAndSetRoundTrip(t *testing.T) {
	cfg, err := defaultConfig()
	if err != nil {
		t.Fatalf("defaultConfig: %v", err)
	}
	cfg.PlayerBaseURL = "http://round-trip:8080"
	Set(&cfg)

	got := Load()
	if got.PlayerBaseURL != "http://round-trip:8080" {
		t.Errorf("Load().PlayerBaseURL = %q", got.PlayerBaseURL)
	}
}
