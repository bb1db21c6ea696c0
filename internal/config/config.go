// Package config loads the playground configuration from TOML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/key"
	"github.com/idursun/layerkit/internal/layer"
)

//go:embed default.toml
var DefaultConfig string

var ErrInvalidOverlay = errors.New("invalid overlay")

type Config struct {
	UI       UIConfig        `toml:"ui"`
	Keys     KeysConfig      `toml:"keys"`
	Overlays []OverlayConfig `toml:"overlays"`
}

type UIConfig struct {
	FlashTimeout time.Duration `toml:"flash_timeout"`
}

type KeysConfig struct {
	Escape []string `toml:"escape"`
	Open   []string `toml:"open"`
	Focus  []string `toml:"focus"`
	Quit   []string `toml:"quit"`
}

type OverlayConfig struct {
	ID     string `toml:"id"`
	Title  string `toml:"title"`
	Body   string `toml:"body"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	Dismiss layer.Behavior `toml:"dismiss"`
	Escape  layer.Behavior `toml:"escape"`

	PreventSelectionOverflow bool `toml:"prevent_selection_overflow"`
	CloseOnFocusOutside      bool `toml:"close_on_focus_outside"`
	// AnyButton lets secondary clicks count as outside interactions, the
	// way one context menu's right click closes another.
	AnyButton bool `toml:"any_button"`
}

type KeyMap struct {
	Escape key.Binding
	Open   key.Binding
	Focus  key.Binding
	Quit   key.Binding
}

// Load reads the embedded defaults and merges the file at path over them.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Parse(DefaultConfig)
	if err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	user, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.merge(user)
	return cfg, cfg.Validate()
}

func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) merge(other *Config) {
	if other.UI.FlashTimeout > 0 {
		c.UI.FlashTimeout = other.UI.FlashTimeout
	}
	if len(other.Keys.Escape) > 0 {
		c.Keys.Escape = other.Keys.Escape
	}
	if len(other.Keys.Open) > 0 {
		c.Keys.Open = other.Keys.Open
	}
	if len(other.Keys.Focus) > 0 {
		c.Keys.Focus = other.Keys.Focus
	}
	if len(other.Keys.Quit) > 0 {
		c.Keys.Quit = other.Keys.Quit
	}
	if len(other.Overlays) > 0 {
		c.Overlays = other.Overlays
	}
}

func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i, o := range c.Overlays {
		switch {
		case o.ID == "":
			return fmt.Errorf("%w: overlay %d has no id", ErrInvalidOverlay, i)
		case seen[o.ID]:
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidOverlay, o.ID)
		case o.Width < 3 || o.Height < 3:
			return fmt.Errorf("%w: %q is smaller than 3x3", ErrInvalidOverlay, o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

func (k KeysConfig) KeyMap() KeyMap {
	return KeyMap{
		Escape: key.NewBinding(key.WithKeys(k.Escape...), key.WithHelp(first(k.Escape), "escape")),
		Open:   key.NewBinding(key.WithKeys(k.Open...), key.WithHelp(first(k.Open), "open overlay")),
		Focus:  key.NewBinding(key.WithKeys(k.Focus...), key.WithHelp(first(k.Focus), "next focus")),
		Quit:   key.NewBinding(key.WithKeys(k.Quit...), key.WithHelp(first(k.Quit), "quit")),
	}
}

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Escape, k.Focus, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
