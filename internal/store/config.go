package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jupiter-cli/internal/model"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type Config struct {
	// APIURL is the base URL of the Jupiter backend (e.g. https://jupiter.example.com/api).
	APIURL string `yaml:"apiUrl,omitempty" json:"apiUrl,omitempty"`
	// Token is the bearer token sent with every backend call.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
	// DefaultTarget is the display surface used when --target is omitted.
	DefaultTarget model.HomeTabTarget `yaml:"defaultTarget,omitempty" json:"defaultTarget,omitempty"`

	TUI *TUIConfig `yaml:"tui,omitempty" json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `yaml:"glyphs,omitempty" json:"glyphs,omitempty"`
}

func (s Store) configPath() string {
	return filepath.Join(s.Dir, configFileName)
}

// LoadConfig reads config.yaml. A missing file yields an empty config.
func (s Store) LoadConfig() (*Config, error) {
	b, err := os.ReadFile(s.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.configPath(), err)
	}
	return &cfg, nil
}

func (s Store) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// Unique temp name so concurrent writers never rename each other's half-written file.
	// CreateTemp uses 0600, which suits a file that may hold a token.
	f, err := os.CreateTemp(s.Dir, configFileName+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.configPath())
}

// Target returns DefaultTarget, falling back to big-screen.
func (c *Config) Target() model.HomeTabTarget {
	if c == nil || c.DefaultTarget == "" {
		return model.HomeTabTargetBigScreen
	}
	return c.DefaultTarget
}

// ConfigKeys lists the keys accepted by Set.
func ConfigKeys() []string {
	keys := []string{"api-url", "token", "default-target", "tui.glyphs"}
	sort.Strings(keys)
	return keys
}

func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "api-url", "apiurl":
		c.APIURL = value
	case "token":
		c.Token = value
	case "default-target", "defaulttarget":
		if value == "" {
			c.DefaultTarget = ""
			return nil
		}
		t, err := model.ParseHomeTabTarget(value)
		if err != nil {
			return err
		}
		c.DefaultTarget = t
	case "tui.glyphs":
		switch value {
		case "", "unicode", "ascii":
		default:
			return fmt.Errorf("invalid glyphs: %q (want unicode|ascii)", value)
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Glyphs = value
	default:
		return fmt.Errorf("unknown config key: %q (valid: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}
