// Package config handles configuration loading and validation for tsreview.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/tsreview/internal/core/styles"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
)

// Glamour styles accepted by tui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeNoTTY = "notty"
)

// Config holds the application configuration.
type Config struct {
	Platform PlatformConfig `yaml:"platform"`
	Review   ReviewConfig   `yaml:"review"`
	Queue    QueueConfig    `yaml:"queue"`
	Database DatabaseConfig `yaml:"database"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// PlatformConfig holds the connection settings for the content platform.
type PlatformConfig struct {
	BaseURL   string        `yaml:"base_url"`   // e.g. https://www.oppia.org
	Timeout   time.Duration `yaml:"timeout"`    // per-request timeout
	CSRFToken string        `yaml:"csrf_token"` // sent with resolution requests
	Cookie    string        `yaml:"cookie"`     // session cookie for an authenticated reviewer
}

// ReviewConfig holds review session settings.
type ReviewConfig struct {
	Category           string `yaml:"category"`             // analytics category
	CommitMessageLimit int    `yaml:"commit_message_limit"` // max commit message length
	Subheading         string `yaml:"subheading"`           // default heading above suggestions
}

// QueueConfig holds default queue file locations.
type QueueConfig struct {
	Patterns []string `yaml:"patterns"` // doublestar globs, relative to Root
	Root     string   `yaml:"root"`     // defaults to the current directory
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme   string `yaml:"theme"`   // glamour style for suggestion content
	Palette string `yaml:"palette"` // color palette, see styles.ThemeNames
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Platform: PlatformConfig{
			BaseURL: "http://localhost:8181",
			Timeout: 30 * time.Second,
		},
		Review: ReviewConfig{
			Category:           "Translation",
			CommitMessageLimit: suggestion.MaxCommitMessageLength,
		},
		Queue: QueueConfig{
			Patterns: []string{"*.json"},
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		TUI: TUIConfig{
			Theme:   ThemeAuto,
			Palette: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Platform.BaseURL == "" {
		c.Platform.BaseURL = defaults.Platform.BaseURL
	}
	if c.Platform.Timeout == 0 {
		c.Platform.Timeout = defaults.Platform.Timeout
	}
	if c.Review.Category == "" {
		c.Review.Category = defaults.Review.Category
	}
	if c.Review.CommitMessageLimit == 0 {
		c.Review.CommitMessageLimit = defaults.Review.CommitMessageLimit
	}
	if len(c.Queue.Patterns) == 0 {
		c.Queue.Patterns = defaults.Queue.Patterns
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Palette == "" {
		c.TUI.Palette = defaults.TUI.Palette
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	u, err := url.Parse(c.Platform.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("platform.base_url must be an http(s) URL, got %q", c.Platform.BaseURL)
	}

	if c.Platform.Timeout < 0 {
		return fmt.Errorf("platform.timeout cannot be negative")
	}

	if c.Review.CommitMessageLimit < 1 || c.Review.CommitMessageLimit > suggestion.MaxCommitMessageLength {
		return fmt.Errorf("review.commit_message_limit must be between 1 and %d", suggestion.MaxCommitMessageLength)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if !isValidTheme(c.TUI.Theme) {
		return fmt.Errorf("tui.theme %q is not one of auto, dark, light, notty", c.TUI.Theme)
	}

	if _, ok := styles.GetPalette(c.TUI.Palette); !ok {
		return fmt.Errorf("tui.palette %q is not one of %s", c.TUI.Palette, strings.Join(styles.ThemeNames(), ", "))
	}

	return nil
}

// DatabaseFile returns the path to the history database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "tsreview.db")
}

func isValidTheme(theme string) bool {
	switch theme {
	case ThemeAuto, ThemeDark, ThemeLight, ThemeNoTTY:
		return true
	default:
		return false
	}
}
