package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/webmentionctl/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string         `mapstructure:"state_dir" yaml:"state_dir"`
	Server        ServerConfig   `mapstructure:"server" yaml:"server"`
	Mentions      MentionsConfig `mapstructure:"mentions" yaml:"mentions"`
	Widget        WidgetConfig   `mapstructure:"widget" yaml:"widget"`
	Metrics       MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// ServerConfig locates the moderation API.
type ServerConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	BasePath       string `mapstructure:"base_path" yaml:"base_path"`
	UIPath         string `mapstructure:"ui_path" yaml:"ui_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// MentionsConfig controls the moderation queue defaults.
type MentionsConfig struct {
	DefaultStatus string `mapstructure:"default_status" yaml:"default_status"`
	PageLimit     int    `mapstructure:"page_limit" yaml:"page_limit"`
}

// WidgetConfig controls the public widget data source.
type WidgetConfig struct {
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`
	Title           string `mapstructure:"title" yaml:"title"`
	RSVPSummary     bool   `mapstructure:"rsvp_summary" yaml:"rsvp_summary"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
}

// MetricsConfig controls client metrics export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".webmentionctl", "state"),
		Server: ServerConfig{
			BaseURL:        "http://localhost:8080",
			BasePath:       "",
			UIPath:         "",
			TimeoutSeconds: 30,
		},
		Mentions: MentionsConfig{
			DefaultStatus: string(schema.DefaultMentionStatus),
			PageLimit:     schema.DefaultPageLimit,
		},
		Widget: WidgetConfig{
			Endpoint:        "",
			Title:           "Mentions",
			RSVPSummary:     false,
			CacheTTLSeconds: 60,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".webmentionctl", "config.yaml"), nil
}
