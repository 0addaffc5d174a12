package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kcaldas/star-shell/pkg/logging"
)

// Configuration keys. Each one can be set in the process environment, in
// ~/.star-shell/.env, or (for the star-shell specific ones) in config.yaml.
const (
	KeyBackend     = "STAR_SHELL_BACKEND"
	KeyModel       = "STAR_SHELL_MODEL"
	KeyMaxTokens   = "STAR_SHELL_MAX_TOKENS"
	KeyTemperature = "STAR_SHELL_TEMPERATURE"
	KeyTopP        = "STAR_SHELL_TOP_P"
	KeyShell       = "STAR_SHELL_SHELL"
	KeyHome        = "STAR_SHELL_HOME"
	KeyTokenDebug  = "STAR_SHELL_TOKEN_DEBUG"
)

const (
	DefaultBackend     = "openai"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.2
	DefaultTopP        = 1.0
)

// ModelConfig represents the default model configuration. Zero fields are
// treated as unset by the LLM clients.
type ModelConfig struct {
	ModelName   string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Manager provides configuration management functionality
type Manager interface {
	GetString(key string) (string, error)
	GetStringWithDefault(key, defaultValue string) string
	RequireString(key string) string
	GetInt(key string) (int, error)
	GetIntWithDefault(key string, defaultValue int) int
	GetBoolWithDefault(key string, defaultValue bool) bool
	GetModelConfig() ModelConfig
}

// DefaultManager resolves keys from the environment first and then from the
// settings file.
type DefaultManager struct {
	lookupEnv func(string) (string, bool)
	settings  Settings
}

// NewConfigManager loads ~/.star-shell/.env into the environment (without
// overriding variables that are already set) and reads config.yaml.
// Problems with either file are logged and otherwise ignored.
func NewConfigManager() Manager {
	logger := logging.NewComponentLogger("config")

	var settings Settings
	dir, err := Dir()
	if err != nil {
		logger.Warn("cannot resolve config directory", "error", err)
	} else {
		if err := LoadDotEnv(dir); err != nil {
			logger.Warn("cannot load .env file", "dir", dir, "error", err)
		}
		settings, err = LoadSettings(SettingsPath(dir))
		if err != nil {
			logger.Warn("cannot load settings file", "dir", dir, "error", err)
		}
	}

	return NewManagerWithSettings(settings)
}

// NewManagerWithSettings builds a manager over the process environment and
// the given settings, without touching the filesystem.
func NewManagerWithSettings(settings Settings) Manager {
	return &DefaultManager{
		lookupEnv: os.LookupEnv,
		settings:  settings,
	}
}

func (m *DefaultManager) lookup(key string) string {
	if value, ok := m.lookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return m.settings.lookup(key)
}

// GetString gets a configuration value by key, returns error if not found
func (m *DefaultManager) GetString(key string) (string, error) {
	value := m.lookup(key)
	if value == "" {
		return "", fmt.Errorf("configuration key %s not found", key)
	}
	return value, nil
}

// GetStringWithDefault gets a configuration value by key, returns default if not found
func (m *DefaultManager) GetStringWithDefault(key, defaultValue string) string {
	value := m.lookup(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// RequireString gets a configuration value by key, panics if not found
func (m *DefaultManager) RequireString(key string) string {
	value := m.lookup(key)
	if value == "" {
		panic(fmt.Sprintf("required configuration key %s not found", key))
	}
	return value
}

// GetInt gets an integer configuration value by key, returns error if not found or invalid
func (m *DefaultManager) GetInt(key string) (int, error) {
	value := m.lookup(key)
	if value == "" {
		return 0, fmt.Errorf("configuration key %s not found", key)
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("configuration key %s has invalid integer value: %s", key, value)
	}
	return intValue, nil
}

// GetIntWithDefault gets an integer configuration value by key, returns default if not found or invalid
func (m *DefaultManager) GetIntWithDefault(key string, defaultValue int) int {
	intValue, err := m.GetInt(key)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// GetBoolWithDefault gets a boolean configuration value by key, returns default if not found or invalid
func (m *DefaultManager) GetBoolWithDefault(key string, defaultValue bool) bool {
	value := m.lookup(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func (m *DefaultManager) getFloatWithDefault(key string, defaultValue float64) float64 {
	value := m.lookup(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}

// GetModelConfig returns the model settings. An empty ModelName means each
// backend picks its own default model.
func (m *DefaultManager) GetModelConfig() ModelConfig {
	return ModelConfig{
		ModelName:   m.GetStringWithDefault(KeyModel, ""),
		MaxTokens:   int32(m.GetIntWithDefault(KeyMaxTokens, DefaultMaxTokens)),
		Temperature: float32(m.getFloatWithDefault(KeyTemperature, DefaultTemperature)),
		TopP:        float32(m.getFloatWithDefault(KeyTopP, DefaultTopP)),
	}
}
