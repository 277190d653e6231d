package loom

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/kungfusheep/loom/key"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of an App.
type Config struct {
	// EscapeTimeout is how long a lone escape waits for the rest of a
	// sequence.
	EscapeTimeout time.Duration
	// ExitKey quits the app when no control handles it.
	ExitKey    key.Key
	AltScreen  bool
	HideCursor bool
	// ColorProfile limits the colors written to the terminal.
	ColorProfile termenv.Profile
	LogFile      string
	LogLevel     log.Level
	// AccentColor is offered to views through App.Config.
	AccentColor Color
}

// DefaultConfig is what an App uses unless told otherwise.
func DefaultConfig() Config {
	return Config{
		EscapeTimeout: key.DefaultTimeout,
		ExitKey:       key.CtrlChar('d'),
		AltScreen:     true,
		HideCursor:    true,
		ColorProfile:  termenv.EnvColorProfile(),
		LogLevel:      log.InfoLevel,
		AccentColor:   Cyan,
	}
}

// fileConfig is the on-disk form. Unset fields keep their defaults.
type fileConfig struct {
	EscapeTimeout string `toml:"escape_timeout" yaml:"escape_timeout"`
	ExitKey       string `toml:"exit_key" yaml:"exit_key"`
	AltScreen     *bool  `toml:"alt_screen" yaml:"alt_screen"`
	HideCursor    *bool  `toml:"hide_cursor" yaml:"hide_cursor"`
	ColorProfile  string `toml:"color_profile" yaml:"color_profile"`
	LogFile       string `toml:"log_file" yaml:"log_file"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	AccentColor   string `toml:"accent_color" yaml:"accent_color"`
}

// LoadConfig reads a TOML or YAML file, chosen by extension, on top of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return Config{}, errors.Errorf("config %s: unknown format %q", path, ext)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}

	cfg := DefaultConfig()
	if err := fc.apply(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.EscapeTimeout != "" {
		d, err := time.ParseDuration(fc.EscapeTimeout)
		if err != nil {
			return errors.Wrap(err, "escape_timeout")
		}
		if d <= 0 {
			return errors.Errorf("escape_timeout: must be positive, got %s", d)
		}
		cfg.EscapeTimeout = d
	}
	if fc.ExitKey != "" {
		k, err := key.ParseKey(fc.ExitKey)
		if err != nil {
			return errors.Wrap(err, "exit_key")
		}
		cfg.ExitKey = k
	}
	if fc.AltScreen != nil {
		cfg.AltScreen = *fc.AltScreen
	}
	if fc.HideCursor != nil {
		cfg.HideCursor = *fc.HideCursor
	}
	if fc.ColorProfile != "" {
		p, err := ParseProfile(fc.ColorProfile)
		if err != nil {
			return err
		}
		cfg.ColorProfile = p
	}
	cfg.LogFile = fc.LogFile
	if fc.LogLevel != "" {
		lvl, err := log.ParseLevel(fc.LogLevel)
		if err != nil {
			return errors.Wrap(err, "log_level")
		}
		cfg.LogLevel = lvl
	}
	if fc.AccentColor != "" {
		c, err := ParseColor(fc.AccentColor)
		if err != nil {
			return errors.Wrap(err, "accent_color")
		}
		cfg.AccentColor = c
	}
	return nil
}

// ParseProfile reads a color profile name: auto, truecolor, 256, 16 or
// none.
func ParseProfile(s string) (termenv.Profile, error) {
	switch strings.ToLower(s) {
	case "auto":
		return termenv.EnvColorProfile(), nil
	case "truecolor", "24bit":
		return termenv.TrueColor, nil
	case "256":
		return termenv.ANSI256, nil
	case "16", "ansi":
		return termenv.ANSI, nil
	case "none", "ascii":
		return termenv.Ascii, nil
	}
	return 0, errors.Errorf("color_profile: unknown profile %q", s)
}

// ParseColor reads "#rrggbb" or a palette index from 0 to 255. Indexes
// below 16 are the basic colors.
func ParseColor(s string) (Color, error) {
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, errors.Wrapf(err, "color %q", s)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return Color{}, errors.Errorf("color %q: want #rrggbb or 0-255", s)
	}
	if n < 16 {
		return BasicColor(uint8(n)), nil
	}
	return PaletteColor(uint8(n)), nil
}
