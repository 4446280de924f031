package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mentions.PageLimit != 50 {
		t.Fatalf("expected default page limit, got %d", cfg.Mentions.PageLimit)
	}
	if cfg.Mentions.DefaultStatus != "verified" {
		t.Fatalf("expected default status verified, got %q", cfg.Mentions.DefaultStatus)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 3
server:
  base_url: https://mentions.example.org
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://mentions.example.org
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version required error, got %v", err)
	}
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
server:
  base_url: example.com
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "server.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestLoadRejectsURLBasePath(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
server:
  base_url: https://mentions.example.org
  ui_path: https://mentions.example.org/ui
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "server.ui_path") {
		t.Fatalf("expected ui_path error, got %v", err)
	}
}

func TestLoadRejectsUnknownDefaultStatus(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
server:
  base_url: https://mentions.example.org
mentions:
  default_status: spam
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "mentions.default_status") {
		t.Fatalf("expected default_status error, got %v", err)
	}
}

func TestLoadRejectsNonPositiveLimit(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
server:
  base_url: https://mentions.example.org
mentions:
  page_limit: 0
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "mentions.page_limit") {
		t.Fatalf("expected page_limit error, got %v", err)
	}
}

func TestLoadReadsValues(t *testing.T) {
	t.Setenv("MENTION_STATE", "/tmp/wm-state")
	path := writeConfig(t, `
config_version: 1
state_dir: $MENTION_STATE
server:
  base_url: https://mentions.example.org
  ui_path: /mentions/ui/
  timeout_seconds: 5
mentions:
  default_status: approved
  page_limit: 10
widget:
  endpoint: https://mentions.example.org/mentions/api
  title: Replies
  rsvp_summary: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateDir != "/tmp/wm-state" {
		t.Fatalf("expected expanded state dir, got %q", cfg.StateDir)
	}
	if cfg.Server.UIPath != "/mentions/ui/" || cfg.Server.TimeoutSeconds != 5 {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Mentions.DefaultStatus != "approved" || cfg.Mentions.PageLimit != 10 {
		t.Fatalf("unexpected mentions config: %+v", cfg.Mentions)
	}
	if cfg.Widget.Title != "Replies" || !cfg.Widget.RSVPSummary {
		t.Fatalf("unexpected widget config: %+v", cfg.Widget)
	}
	if cfg.Widget.CacheTTLSeconds != 60 {
		t.Fatalf("expected default cache ttl, got %d", cfg.Widget.CacheTTLSeconds)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WEBMENTIONCTL_SERVER_BASE_URL", "https://override.example.org")
	path := writeConfig(t, `
config_version: 1
server:
  base_url: https://mentions.example.org
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BaseURL != "https://override.example.org" {
		t.Fatalf("expected env override, got %q", cfg.Server.BaseURL)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("expected written default to load: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
