package testsupport

import (
	"path/filepath"
	"testing"

	"tonearm/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "tonearmd.sock")
	cfg.Player.BaseURL = "http://127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithVoting overrides the voting limits on the test config.
func WithVoting(voting config.Voting) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Voting = voting
	}
}
