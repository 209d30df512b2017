// Package config provides YAML-based configuration loading for the
// tilefolio platform: storage paths and quota, session pacing, and the
// SSH serving surface.
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// StorageConfig defines where state lives and how much of it may.
type StorageConfig struct {
	Path       string `yaml:"path"`        // state database file
	QuotaBytes int    `yaml:"quota_bytes"` // logical storage quota
	SessionsDB string `yaml:"sessions_db"` // visit log database file
}

// GameConfig defines session pacing and content sources.
type GameConfig struct {
	TickRate            int    `yaml:"tick_rate"`             // frames per second
	AchievementSweepSec int    `yaml:"achievement_sweep_sec"` // 0 disables the periodic sweep
	StorageRefreshSec   int    `yaml:"storage_refresh_sec"`   // 0 disables the periodic reading
	DefaultTheme        string `yaml:"default_theme"`
	WorldPath           string `yaml:"world_path"`   // custom island YAML, empty for built-in
	CatalogPath         string `yaml:"catalog_path"` // custom achievement catalog, empty for built-in
}

// SSHConfig defines the remote serving surface.
type SSHConfig struct {
	Address        string `yaml:"address"`          // host:port to listen on
	HostKeyPath    string `yaml:"host_key_path"`    // empty auto-generates under the data directory
	IdleTimeoutMin int    `yaml:"idle_timeout_min"` // 0 disables the idle disconnect
}

// AchievementSweep returns the sweep cadence as a duration.
func (g GameConfig) AchievementSweep() time.Duration {
	return time.Duration(g.AchievementSweepSec) * time.Second
}

// StorageRefresh returns the storage reading cadence as a duration.
func (g GameConfig) StorageRefresh() time.Duration {
	return time.Duration(g.StorageRefreshSec) * time.Second
}

// IdleTimeout returns the SSH idle disconnect as a duration.
func (s SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMin) * time.Minute
}

// Normalize replaces invalid values with defaults. Zero sweep intervals
// and a zero idle timeout are valid and mean disabled.
func (c *Config) Normalize() {
	d := DefaultConfig()

	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
	if c.Storage.QuotaBytes <= 0 {
		c.Storage.QuotaBytes = d.Storage.QuotaBytes
	}
	if c.Storage.SessionsDB == "" {
		c.Storage.SessionsDB = d.Storage.SessionsDB
	}

	if c.Game.TickRate < 1 {
		c.Game.TickRate = d.Game.TickRate
	}
	if c.Game.TickRate > 120 {
		c.Game.TickRate = 120
	}
	if c.Game.AchievementSweepSec < 0 {
		c.Game.AchievementSweepSec = d.Game.AchievementSweepSec
	}
	if c.Game.StorageRefreshSec < 0 {
		c.Game.StorageRefreshSec = d.Game.StorageRefreshSec
	}
	if c.Game.DefaultTheme == "" {
		c.Game.DefaultTheme = d.Game.DefaultTheme
	}

	if c.SSH.Address == "" {
		c.SSH.Address = d.SSH.Address
	}
	if c.SSH.IdleTimeoutMin < 0 {
		c.SSH.IdleTimeoutMin = d.SSH.IdleTimeoutMin
	}
}
