package appconfig

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"pkt.systems/webmentionctl/schema"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("WEBMENTIONCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("state_dir", cfg.StateDir)
	v.SetDefault("server.base_url", cfg.Server.BaseURL)
	v.SetDefault("server.base_path", cfg.Server.BasePath)
	v.SetDefault("server.ui_path", cfg.Server.UIPath)
	v.SetDefault("server.timeout_seconds", cfg.Server.TimeoutSeconds)
	v.SetDefault("mentions.default_status", cfg.Mentions.DefaultStatus)
	v.SetDefault("mentions.page_limit", cfg.Mentions.PageLimit)
	v.SetDefault("widget.endpoint", cfg.Widget.Endpoint)
	v.SetDefault("widget.title", cfg.Widget.Title)
	v.SetDefault("widget.rsvp_summary", cfg.Widget.RSVPSummary)
	v.SetDefault("widget.cache_ttl_seconds", cfg.Widget.CacheTTLSeconds)
	v.SetDefault("metrics.textfile", cfg.Metrics.Textfile)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.InConfig("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateServerConfig(cfg.Server); err != nil {
		return Config{}, err
	}
	if err := validateMentionsConfig(cfg.Mentions); err != nil {
		return Config{}, err
	}
	if err := validateWidgetConfig(cfg.Widget); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateServerConfig(cfg ServerConfig) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.base_url must include scheme and host (e.g. https://example.com)")
	}
	for key, value := range map[string]string{
		"server.base_path": cfg.BasePath,
		"server.ui_path":   cfg.UIPath,
	} {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.Contains(value, "://") {
			return fmt.Errorf("%s must be a path prefix, not a URL", key)
		}
		if strings.ContainsAny(value, "?#") {
			return fmt.Errorf("%s must not include query or fragment", key)
		}
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("server.timeout_seconds must not be negative")
	}
	return nil
}

func validateMentionsConfig(cfg MentionsConfig) error {
	if _, err := schema.NormalizeMentionStatus(cfg.DefaultStatus); err != nil {
		return fmt.Errorf("mentions.default_status %q is not a known status", cfg.DefaultStatus)
	}
	if cfg.PageLimit <= 0 {
		return fmt.Errorf("mentions.page_limit must be positive")
	}
	return nil
}

func validateWidgetConfig(cfg WidgetConfig) error {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" {
		parsed, err := url.Parse(endpoint)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("widget.endpoint must include scheme and host")
		}
	}
	if cfg.CacheTTLSeconds < 0 {
		return fmt.Errorf("widget.cache_ttl_seconds must not be negative")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.StateDir = expandEnv(cfg.StateDir)
	cfg.Server.BaseURL = expandEnv(cfg.Server.BaseURL)
	cfg.Widget.Endpoint = expandEnv(cfg.Widget.Endpoint)
	cfg.Metrics.Textfile = expandEnv(cfg.Metrics.Textfile)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
