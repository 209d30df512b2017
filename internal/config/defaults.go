package config

import (
	_ "embed"
)

//go:embed defaults/tilefolio.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration, used when even the
// embedded default cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Path:       "~/.tilefolio/tilefolio.db",
			QuotaBytes: 5 * 1024 * 1024,
			SessionsDB: "~/.tilefolio/visits.db",
		},
		Game: GameConfig{
			TickRate:            30,
			AchievementSweepSec: 5,
			StorageRefreshSec:   30,
			DefaultTheme:        "classic",
		},
		SSH: SSHConfig{
			Address:        ":23234",
			HostKeyPath:    "",
			IdleTimeoutMin: 30,
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultYAML
}
