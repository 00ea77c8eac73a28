// Package config loads folio settings from an optional YAML file and the
// environment.
//
// Precedence, highest first: FOLIO_* environment variables (ANTHROPIC_API_KEY
// and OLLAMA_HOST are also honoured), the config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bdobrica/folio/common/redact"
	"github.com/bdobrica/folio/internal/folio/nlp"
)

// EnvPrefix prefixes every environment override, e.g. FOLIO_AI_MODE.
const EnvPrefix = "FOLIO"

// Config is the resolved configuration.
type Config struct {
	AI      AIConfig      `mapstructure:"ai"`
	Journal JournalConfig `mapstructure:"journal"`
	Log     LogConfig     `mapstructure:"log"`
	Vocab   VocabConfig   `mapstructure:"vocab"`

	// File is the config file that was read, or "" when none was found.
	File string `mapstructure:"-"`
}

// AIConfig selects and configures the interpreters.
type AIConfig struct {
	Mode          string        `mapstructure:"mode"`
	ClaudeAPIKey  string        `mapstructure:"claude_api_key"`
	ClaudeModel   string        `mapstructure:"claude_model"`
	ClaudeBaseURL string        `mapstructure:"claude_base_url"`
	ClaudeTimeout time.Duration `mapstructure:"claude_timeout"`
	OllamaURL     string        `mapstructure:"ollama_url"`
	LocalModel    string        `mapstructure:"local_model"`
	OllamaTimeout time.Duration `mapstructure:"ollama_timeout"`
	// RateLimit is model calls per session per minute; 0 disables the limit.
	RateLimit int `mapstructure:"rate_limit"`
}

// JournalConfig locates the SQLite transcript. An empty Path disables it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// VocabConfig points at an optional vocabulary overlay file.
type VocabConfig struct {
	Path string `mapstructure:"path"`
}

// Dir returns the per-user config directory, $HOME/.config/folio.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "folio")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.mode", string(nlp.ModeHybrid))
	v.SetDefault("ai.claude_api_key", "")
	v.SetDefault("ai.claude_model", nlp.DefaultCloudModel)
	v.SetDefault("ai.claude_base_url", "")
	v.SetDefault("ai.claude_timeout", nlp.DefaultCloudTimeout)
	v.SetDefault("ai.ollama_url", nlp.DefaultLocalURL)
	v.SetDefault("ai.local_model", nlp.DefaultLocalModel)
	v.SetDefault("ai.ollama_timeout", nlp.DefaultLocalTimeout)
	v.SetDefault("ai.rate_limit", nlp.DefaultRateLimit)
	journal := ""
	if dir := Dir(); dir != "" {
		journal = filepath.Join(dir, "journal.db")
	}
	v.SetDefault("journal.path", journal)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("vocab.path", "")
}

// Load reads configuration. With an explicit path the file must exist;
// otherwise folio.yaml is looked up in Dir() and the working directory and
// may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.claude_api_key", EnvPrefix+"_AI_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}
	if err := v.BindEnv("ai.ollama_url", EnvPrefix+"_AI_OLLAMA_URL", "OLLAMA_HOST"); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		if dir := Dir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.AI.OllamaURL = normalizeOllamaURL(cfg.AI.OllamaURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalizeOllamaURL accepts OLLAMA_HOST style values ("127.0.0.1:11434").
func normalizeOllamaURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u != "" && !strings.Contains(u, "://") {
		u = "http://" + u
	}
	return u
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := nlp.ParseMode(c.AI.Mode); err != nil {
		return fmt.Errorf("config: ai.mode: %w", err)
	}
	if c.AI.ClaudeTimeout <= 0 {
		return fmt.Errorf("config: ai.claude_timeout must be positive, got %s", c.AI.ClaudeTimeout)
	}
	if c.AI.OllamaTimeout <= 0 {
		return fmt.Errorf("config: ai.ollama_timeout must be positive, got %s", c.AI.OllamaTimeout)
	}
	if c.AI.RateLimit < 0 {
		return fmt.Errorf("config: ai.rate_limit must not be negative, got %d", c.AI.RateLimit)
	}
	return nil
}

// Mode returns the parsed operating mode. Load has already validated it.
func (c *Config) Mode() nlp.Mode {
	m, err := nlp.ParseMode(c.AI.Mode)
	if err != nil {
		return nlp.ModeHybrid
	}
	return m
}

// Redacted returns the settings as a nested map with credentials masked,
// for display.
func (c *Config) Redacted() map[string]any {
	return redact.Settings(map[string]any{
		"ai": map[string]any{
			"mode":            c.AI.Mode,
			"claude_api_key":  c.AI.ClaudeAPIKey,
			"claude_model":    c.AI.ClaudeModel,
			"claude_base_url": c.AI.ClaudeBaseURL,
			"claude_timeout":  c.AI.ClaudeTimeout.String(),
			"ollama_url":      c.AI.OllamaURL,
			"local_model":     c.AI.LocalModel,
			"ollama_timeout":  c.AI.OllamaTimeout.String(),
			"rate_limit":      c.AI.RateLimit,
		},
		"journal": map[string]any{"path": c.Journal.Path},
		"log":     map[string]any{"level": c.Log.Level, "format": c.Log.Format},
		"vocab":   map[string]any{"path": c.Vocab.Path},
	})
}
