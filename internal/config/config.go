package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures how lightpanel reaches a light node.
type Config struct {
	Device       string
	Timeout      time.Duration
	PollInterval time.Duration
	LogFile      string
	Template     string // optional local page markup used by render
}

const (
	defaultConfigPath   = "~/.config/lightpanel/config.toml"
	defaultLogFile      = "~/.local/state/lightpanel/lightpanel.log"
	defaultDevice       = "192.168.4.1"
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 10 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Device:       defaultDevice,
		Timeout:      defaultTimeout,
		PollInterval: defaultPollInterval,
		LogFile:      mustExpand(defaultLogFile),
	}
}

// Load locates and parses the lightpanel config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Device         string `toml:"device"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		PollSeconds    int    `toml:"poll_seconds"`
		LogFile        string `toml:"log_file"`
		Template       string `toml:"template"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if device := strings.TrimSpace(raw.Device); device != "" {
		cfg.Device = device
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if tmpl := strings.TrimSpace(raw.Template); tmpl != "" {
		cfg.Template = mustExpand(tmpl)
	}

	return cfg, nil
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
