// Package kiosk is the composition root: config loading, provider
// registration and the engine that wires the conversation together.
package kiosk

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"terrytube/pkg/web"
)

// VendorConfig selects a provider by name with vendor-specific settings.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	LLM VendorConfig `mapstructure:"llm"`
	TTS VendorConfig `mapstructure:"tts"`
	STT VendorConfig `mapstructure:"stt"`
}

type SpeechConfig struct {
	CacheDir         string `mapstructure:"cache_dir"`
	CacheMaxMB       int    `mapstructure:"cache_max_mb"`
	SweepIntervalMin int    `mapstructure:"sweep_interval_min"`
	CacheMaxAgeHours int    `mapstructure:"cache_max_age_hours"`
	FallbackEnabled  bool   `mapstructure:"fallback_enabled"`
}

type RecordingConfig struct {
	Dir            string `mapstructure:"dir"`
	MaxDurationSec int    `mapstructure:"max_duration_sec"`
	SampleRate     int    `mapstructure:"sample_rate"`
	RetentionHours int    `mapstructure:"retention_hours"`
}

type ConversationConfig struct {
	EndDelaySec   int `mapstructure:"end_delay_sec"`
	LLMTimeoutSec int `mapstructure:"llm_timeout_sec"`
}

type ObservabilityConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
}

type Config struct {
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Mode          string              `mapstructure:"mode"`
	Personality   string              `mapstructure:"personality"`
	Web           web.ServerConfig    `mapstructure:"web"`
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Speech        SpeechConfig        `mapstructure:"speech"`
	Recording     RecordingConfig     `mapstructure:"recording"`
	Conversation  ConversationConfig  `mapstructure:"conversation"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// LoadConfig reads the config file, fills defaults and expands ${ENV}
// references in vendor settings. A missing file is fine when path is empty:
// the kiosk runs on defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("mode", "web")
	v.SetDefault("personality", "")
	v.SetDefault("web.addr", ":8080")
	v.SetDefault("vendors.llm.provider", "ollama")
	v.SetDefault("vendors.tts.provider", "openai")
	v.SetDefault("vendors.stt.provider", "openai")
	v.SetDefault("speech.cache_dir", "tts_cache")
	v.SetDefault("speech.cache_max_mb", 500)
	v.SetDefault("speech.sweep_interval_min", 60)
	v.SetDefault("speech.cache_max_age_hours", 720)
	v.SetDefault("speech.fallback_enabled", true)
	v.SetDefault("recording.dir", "recordings")
	v.SetDefault("recording.max_duration_sec", 30)
	v.SetDefault("recording.sample_rate", 16000)
	v.SetDefault("recording.retention_hours", 24)
	v.SetDefault("conversation.end_delay_sec", 3)
	v.SetDefault("conversation.llm_timeout_sec", 30)
	v.SetDefault("observability.metrics_path", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.STT.Settings = expandSettings(cfg.Vendors.STT.Settings)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "web", "terminal":
	default:
		return fmt.Errorf("mode must be web or terminal, got %q", c.Mode)
	}
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		return fmt.Errorf("vendors.llm.provider is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	if strings.TrimSpace(c.Vendors.STT.Provider) == "" {
		return fmt.Errorf("vendors.stt.provider is required")
	}
	if c.Speech.CacheMaxMB <= 0 {
		return fmt.Errorf("speech.cache_max_mb must be positive")
	}
	if c.Recording.MaxDurationSec <= 0 {
		return fmt.Errorf("recording.max_duration_sec must be positive")
	}
	return nil
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		return expandSettings(val)
	default:
		return v
	}
}
