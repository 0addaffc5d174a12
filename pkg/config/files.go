package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	dirName          = ".star-shell"
	settingsFileName = "config.yaml"
	envFileName      = ".env"
)

// Settings is the content of ~/.star-shell/config.yaml. Zero values mean
// unset: a temperature of 0 selects the default, so the lowest temperature
// that can be configured is any positive value such as 0.01.
type Settings struct {
	Backend     string  `yaml:"backend,omitempty"`
	Model       string  `yaml:"model,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	Shell       string  `yaml:"shell,omitempty"`
}

func (s Settings) lookup(key string) string {
	switch key {
	case KeyBackend:
		return s.Backend
	case KeyModel:
		return s.Model
	case KeyShell:
		return s.Shell
	case KeyMaxTokens:
		if s.MaxTokens > 0 {
			return strconv.Itoa(s.MaxTokens)
		}
	case KeyTemperature:
		if s.Temperature > 0 {
			return strconv.FormatFloat(s.Temperature, 'f', -1, 64)
		}
	}
	return ""
}

// Dir returns the star-shell configuration directory: $STAR_SHELL_HOME when
// set, ~/.star-shell otherwise. The directory is not created.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(KeyHome)); dir != "" {
		return dir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// SettingsPath returns the config.yaml path inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// EnvPath returns the .env path inside dir.
func EnvPath(dir string) string {
	return filepath.Join(dir, envFileName)
}

// LoadSettings reads a settings file. A missing file yields zero Settings.
func LoadSettings(path string) (Settings, error) {
	var settings Settings

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings to path, creating the parent directory.
func SaveSettings(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// LoadDotEnv loads dir/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := EnvPath(dir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// SaveEnvValue sets key=value in dir/.env, keeping other entries. The file
// holds API keys so it is restricted to the owner.
func SaveEnvValue(dir, key, value string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := EnvPath(dir)
	values := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		existing, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		values = existing
	}
	values[key] = value

	content, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	// OpenFile keeps the mode of an existing file.
	if err := file.Chmod(0o600); err != nil {
		file.Close()
		return fmt.Errorf("restricting %s: %w", path, err)
	}
	if _, err := file.WriteString(content + "\n"); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
