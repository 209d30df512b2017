package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.yaml")
	doc := `
storage:
  quota_bytes: 1048576
game:
  tick_rate: 60
  default_theme: midnight
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.QuotaBytes != 1048576 {
		t.Errorf("QuotaBytes = %d, want 1048576", cfg.Storage.QuotaBytes)
	}
	if cfg.Game.TickRate != 60 {
		t.Errorf("TickRate = %d, want 60", cfg.Game.TickRate)
	}
	if cfg.Game.DefaultTheme != "midnight" {
		t.Errorf("DefaultTheme = %q, want midnight", cfg.Game.DefaultTheme)
	}

	// Fields the file does not name keep their defaults
	d := DefaultConfig()
	if cfg.Storage.Path != d.Storage.Path {
		t.Errorf("Path = %q, want default", cfg.Storage.Path)
	}
	if cfg.Game.AchievementSweepSec != d.Game.AchievementSweepSec {
		t.Errorf("AchievementSweepSec = %d, want default", cfg.Game.AchievementSweepSec)
	}
	if cfg.SSH.Address != d.SSH.Address {
		t.Errorf("Address = %q, want default", cfg.SSH.Address)
	}
}

func TestLoadCustomPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom path")
	}
}

func TestLoadCustomPathBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for unparseable YAML")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	d := DefaultConfig()
	if cfg.Storage.QuotaBytes != d.Storage.QuotaBytes {
		t.Errorf("QuotaBytes = %d, want %d", cfg.Storage.QuotaBytes, d.Storage.QuotaBytes)
	}
	if cfg.Game.TickRate != d.Game.TickRate {
		t.Errorf("TickRate = %d, want %d", cfg.Game.TickRate, d.Game.TickRate)
	}
	if cfg.Game.DefaultTheme != d.Game.DefaultTheme {
		t.Errorf("DefaultTheme = %q, want %q", cfg.Game.DefaultTheme, d.Game.DefaultTheme)
	}
	if cfg.SSH.IdleTimeoutMin != d.SSH.IdleTimeoutMin {
		t.Errorf("IdleTimeoutMin = %d, want %d", cfg.SSH.IdleTimeoutMin, d.SSH.IdleTimeoutMin)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".tilefolio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := "game:\n  tick_rate: 45\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Game.TickRate != 45 {
		t.Errorf("TickRate = %d, want 45 from user config", cfg.Game.TickRate)
	}
}

func TestNormalizeClampsInvalid(t *testing.T) {
	cfg := Config{
		Game: GameConfig{
			TickRate:            500,
			AchievementSweepSec: -1,
			StorageRefreshSec:   -10,
		},
		SSH: SSHConfig{IdleTimeoutMin: -5},
	}
	cfg.Normalize()

	d := DefaultConfig()
	if cfg.Game.TickRate != 120 {
		t.Errorf("TickRate = %d, want capped at 120", cfg.Game.TickRate)
	}
	if cfg.Game.AchievementSweepSec != d.Game.AchievementSweepSec {
		t.Errorf("AchievementSweepSec = %d, want default", cfg.Game.AchievementSweepSec)
	}
	if cfg.Game.StorageRefreshSec != d.Game.StorageRefreshSec {
		t.Errorf("StorageRefreshSec = %d, want default", cfg.Game.StorageRefreshSec)
	}
	if cfg.SSH.IdleTimeoutMin != d.SSH.IdleTimeoutMin {
		t.Errorf("IdleTimeoutMin = %d, want default", cfg.SSH.IdleTimeoutMin)
	}
	if cfg.Storage.Path != d.Storage.Path {
		t.Errorf("Path = %q, want default", cfg.Storage.Path)
	}

	// Explicit zeros mean disabled and survive normalization
	off := Config{Game: GameConfig{TickRate: 30, AchievementSweepSec: 0, StorageRefreshSec: 0}}
	off.Normalize()
	if off.Game.AchievementSweepSec != 0 || off.Game.StorageRefreshSec != 0 {
		t.Error("zero sweep intervals should survive normalization")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Game.AchievementSweep(); got != 5*time.Second {
		t.Errorf("AchievementSweep() = %v", got)
	}
	if got := cfg.Game.StorageRefresh(); got != 30*time.Second {
		t.Errorf("StorageRefresh() = %v", got)
	}
	if got := cfg.SSH.IdleTimeout(); got != 30*time.Minute {
		t.Errorf("IdleTimeout() = %v", got)
	}
}
