package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultDailyNoteURL is the HoYoLAB daily note endpoint.
const DefaultDailyNoteURL = "https://bbs-api-os.hoyoverse.com/game_record/genshin/api/dailyNote"

// ErrConfigurationMissing is returned by Validate when a required value is absent.
var ErrConfigurationMissing = errors.New("configuration missing")

// Config holds all application configuration.
type Config struct {
	HoYoLab struct {
		RoleID     string `yaml:"role_id"`
		Server     string `yaml:"server"`
		LToken     string `yaml:"ltoken"`
		LTUID      string `yaml:"ltuid"`
		BaseURL    string `yaml:"base_url"`
		UseKeyring bool   `yaml:"use_keyring"`
	} `yaml:"hoyolab"`
	Webhook struct {
		URL   string `yaml:"url"`
		Token string `yaml:"token"`
	} `yaml:"webhook"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; everything can come from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("USER_ID"); v != "" {
		cfg.HoYoLab.RoleID = v
	}
	if v := os.Getenv("HOYOLAB_ROLE_ID"); v != "" {
		cfg.HoYoLab.RoleID = v
	}
	if v := os.Getenv("HOYOLAB_SERVER"); v != "" {
		cfg.HoYoLab.Server = v
	}
	if v := os.Getenv("HOYOLAB_COOKIE_LTOKEN"); v != "" {
		cfg.HoYoLab.LToken = v
	}
	if v := os.Getenv("HOYOLAB_COOKIE_LUID"); v != "" {
		cfg.HoYoLab.LTUID = v
	}
	if v := os.Getenv("HOYOLAB_BASE_URL"); v != "" {
		cfg.HoYoLab.BaseURL = v
	}
	if v := os.Getenv("HOYOLAB_USE_KEYRING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HoYoLab.UseKeyring = b
		}
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("WEBHOOK_TOKEN"); v != "" {
		cfg.Webhook.Token = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.HoYoLab.Server == "" {
		cfg.HoYoLab.Server = "os_asia"
	}
	if cfg.HoYoLab.BaseURL == "" {
		cfg.HoYoLab.BaseURL = DefaultDailyNoteURL
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.HoYoLab.RoleID == "" {
		return fmt.Errorf("hoyolab.role_id: %w", ErrConfigurationMissing)
	}
	if c.HoYoLab.LToken == "" {
		return fmt.Errorf("hoyolab.ltoken: %w", ErrConfigurationMissing)
	}
	if c.HoYoLab.LTUID == "" {
		return fmt.Errorf("hoyolab.ltuid: %w", ErrConfigurationMissing)
	}
	if c.Webhook.URL == "" {
		return fmt.Errorf("webhook.url: %w", ErrConfigurationMissing)
	}
	return nil
}
