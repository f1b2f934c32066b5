package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"tonearm/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Voting.GongLimit != 3 {
		t.Fatalf("unexpected default gong limit: %d", cfg.Voting.GongLimit)
	}
	if cfg.Voting.UserGongCap != 1 {
		t.Fatalf("unexpected default user gong cap: %d", cfg.Voting.UserGongCap)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "tonearm", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Player.BaseURL != "http://127.0.0.1:6680" {
		t.Fatalf("unexpected player base url: %q", cfg.Player.BaseURL)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tonearm.toml")
	contents := `
[voting]
gong_limit = 5
vote_time_limit_minutes = 2

[player]
base_url = "http://localhost:9999/"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Voting.GongLimit != 5 {
		t.Fatalf("expected gong limit override, got %d", cfg.Voting.GongLimit)
	}
	if cfg.Voting.VoteLimit != 3 {
		t.Fatalf("expected vote limit default, got %d", cfg.Voting.VoteLimit)
	}
	if cfg.Player.BaseURL != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Player.BaseURL)
	}
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tonearm.toml")
	if err := os.WriteFile(path, []byte("[voting]\ngong_limit = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for zero gong_limit")
	}
}

func TestLoadRejectsUnknownGongCapScope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tonearm.toml")
	if err := os.WriteFile(path, []byte("[voting]\ngong_cap_scope = \"weekly\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown gong_cap_scope")
	}
}

func TestLoadAcceptsLifetimeGongCapScope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tonearm.toml")
	if err := os.WriteFile(path, []byte("[voting]\ngong_cap_scope = \"Lifetime\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Voting.GongCapScope != "lifetime" {
		t.Fatalf("expected scope normalized to lifetime, got %q", cfg.Voting.GongCapScope)
	}
}

func TestLimitStoreReadsAreLive(t *testing.T) {
	store := config.NewLimitStore(config.Default().Voting)
	if got := store.Snapshot().GongLimit; got != 3 {
		t.Fatalf("unexpected seeded gong limit: %d", got)
	}

	one := 1
	store.Apply(config.LimitPatch{GongLimit: &one})
	if got := store.Snapshot().GongLimit; got != 1 {
		t.Fatalf("expected gong limit 1 after patch, got %d", got)
	}
}

func TestLimitStoreIgnoresInvalidPatchValues(t *testing.T) {
	store := config.NewLimitStore(config.Default().Voting)
	zero := 0
	negative := -4
	store.Apply(config.LimitPatch{GongLimit: &zero, VoteLimit: &negative})

	limits := store.Snapshot()
	if limits.GongLimit != 3 || limits.VoteLimit != 3 {
		t.Fatalf("expected invalid patch values ignored, got %+v", limits)
	}
}
