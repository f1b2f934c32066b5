package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	LogDir     string `toml:"log_dir"`
	SocketPath string `toml:"socket_path"`
}

// Player contains connection settings for the external playback daemon.
type Player struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Messenger contains settings for the chat message webhook.
type Messenger struct {
	WebhookURL     string `toml:"webhook_url"`
	ChannelID      string `toml:"channel_id"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Voting contains quorum limits and timing for the voting topics.
type Voting struct {
	GongLimit            int    `toml:"gong_limit"`
	VoteLimit            int    `toml:"vote_limit"`
	VoteImmuneLimit      int    `toml:"vote_immune_limit"`
	FlushVoteLimit       int    `toml:"flush_vote_limit"`
	VoteTimeLimitMinutes int    `toml:"vote_time_limit_minutes"`
	UserGongCap          int    `toml:"user_gong_cap"`
	UserVoteCap          int    `toml:"user_vote_cap"`
	GongCapScope         string `toml:"gong_cap_scope"`
	FanfareURI           string `toml:"fanfare_uri"`
	FanfareSeconds       int    `toml:"fanfare_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Player    Player    `toml:"player"`
	Messenger Messenger `toml:"messenger"`
	Voting    Voting    `toml:"voting"`
	Logging   Logging   `toml:"logging"`
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return "~/.config/tonearm/config.toml"
}

// Load reads configuration from the provided path, or the default location
// when path is empty. It returns the effective config, the resolved path,
// and whether a config file existed there.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultPath()
	}
	resolved = expandHome(resolved)

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg.normalize()
		if vErr := cfg.Validate(); vErr != nil {
			return nil, resolved, false, vErr
		}
		return &cfg, resolved, false, nil
	case err != nil:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, true, err
	}
	return &cfg, resolved, true, nil
}

// WriteSample writes the embedded sample config to the target path, creating
// parent directories as needed. Existing files are not overwritten.
func WriteSample(path string) (string, error) {
	resolved := expandHome(strings.TrimSpace(path))
	if resolved == "" {
		resolved = expandHome(DefaultPath())
	}
	if _, err := os.Stat(resolved); err == nil {
		return resolved, fmt.Errorf("config already exists at %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return resolved, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(sampleConfig), 0o644); err != nil {
		return resolved, fmt.Errorf("write sample config: %w", err)
	}
	return resolved, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.SocketPath)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Paths.LogDir = expandHome(strings.TrimSpace(c.Paths.LogDir))
	c.Paths.SocketPath = expandHome(strings.TrimSpace(c.Paths.SocketPath))
	c.Player.BaseURL = strings.TrimRight(strings.TrimSpace(c.Player.BaseURL), "/")
	c.Messenger.WebhookURL = strings.TrimSpace(c.Messenger.WebhookURL)
	c.Messenger.ChannelID = strings.TrimSpace(c.Messenger.ChannelID)
	c.Voting.FanfareURI = strings.TrimSpace(c.Voting.FanfareURI)
	c.Voting.GongCapScope = strings.ToLower(strings.TrimSpace(c.Voting.GongCapScope))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

func expandHome(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
