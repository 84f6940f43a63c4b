package config

import (
	"os"
	"strconv"
	"time"

	"goexplain/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig `validate:"required"`
	Upload  UploadConfig
	Insight InsightConfig
	History HistoryConfig
	Preview PreviewConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required"`
	APIPort string
	GinMode string
}

// UploadConfig holds dataset upload limits
type UploadConfig struct {
	MaxFileSizeMB int
}

// InsightConfig holds the thresholds the insight engine classifies with
type InsightConfig struct {
	StrongCorrelation   float64
	ModerateCorrelation float64
	WeakCorrelation     float64
	HighMeanThreshold   float64
}

// HistoryConfig holds upload history settings
type HistoryConfig struct {
	Limit int
}

// PreviewConfig holds dataset preview settings
type PreviewConfig struct {
	Rows int
}

// SessionConfig holds browser session lifecycle settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	config.Server = *loadServerConfig()
	config.Upload = *loadUploadConfig()
	config.Insight = *loadInsightConfig()
	config.History = *loadHistoryConfig()
	config.Preview = *loadPreviewConfig()
	config.Session = *loadSessionConfig()
	config.Log = *loadLogConfig()

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSizeMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 25),
	}
}

func loadInsightConfig() *InsightConfig {
	return &InsightConfig{
		StrongCorrelation:   getEnvFloatOrDefault("CORR_STRONG_THRESHOLD", 0.7),
		ModerateCorrelation: getEnvFloatOrDefault("CORR_MODERATE_THRESHOLD", 0.4),
		WeakCorrelation:     getEnvFloatOrDefault("CORR_WEAK_THRESHOLD", 0.2),
		HighMeanThreshold:   getEnvFloatOrDefault("HIGH_MEAN_THRESHOLD", 1000),
	}
}

func loadHistoryConfig() *HistoryConfig {
	return &HistoryConfig{
		Limit: getEnvIntOrDefault("HISTORY_LIMIT", 5),
	}
}

func loadPreviewConfig() *PreviewConfig {
	return &PreviewConfig{
		Rows: getEnvIntOrDefault("PREVIEW_ROWS", 20),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:           getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
		SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
	}
	ins := config.Insight
	if ins.WeakCorrelation <= 0 {
		return errors.ConfigInvalid("weak correlation threshold must be positive")
	}
	if ins.ModerateCorrelation <= ins.WeakCorrelation {
		return errors.ConfigInvalid("moderate correlation threshold must exceed the weak threshold")
	}
	if ins.StrongCorrelation <= ins.ModerateCorrelation {
		return errors.ConfigInvalid("strong correlation threshold must exceed the moderate threshold")
	}
	if ins.StrongCorrelation > 1 {
		return errors.ConfigInvalid("strong correlation threshold cannot exceed 1")
	}
	if config.History.Limit <= 0 {
		return errors.ConfigInvalid("history limit must be positive")
	}
	if config.Preview.Rows <= 0 {
		return errors.ConfigInvalid("preview rows must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("session TTL must be positive")
	}
	if config.Session.SweepInterval <= 0 {
		return errors.ConfigInvalid("session sweep interval must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
