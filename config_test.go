package loom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kungfusheep/loom/key"
	"github.com/muesli/termenv"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	check := func(t *testing.T, cfg Config) {
		t.Helper()
		if cfg.EscapeTimeout != 25*time.Millisecond {
			t.Errorf("escape timeout: got %v", cfg.EscapeTimeout)
		}
		if cfg.ExitKey != key.CtrlChar('q') {
			t.Errorf("exit key: got %v", cfg.ExitKey)
		}
		if cfg.AltScreen {
			t.Error("expected alt screen off")
		}
		if !cfg.HideCursor {
			t.Error("expected hide cursor to keep its default")
		}
		if cfg.ColorProfile != termenv.ANSI256 {
			t.Errorf("profile: got %v", cfg.ColorProfile)
		}
		if cfg.LogLevel != log.DebugLevel {
			t.Errorf("log level: got %v", cfg.LogLevel)
		}
		if cfg.AccentColor != RGB(255, 128, 0) {
			t.Errorf("accent: got %+v", cfg.AccentColor)
		}
	}

	t.Run("toml", func(t *testing.T) {
		path := writeConfig(t, "loom.toml", `
escape_timeout = "25ms"
exit_key = "ctrl+q"
alt_screen = false
color_profile = "256"
log_level = "debug"
accent_color = "#ff8000"
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		check(t, cfg)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeConfig(t, "loom.yml", `
escape_timeout: 25ms
exit_key: ctrl+q
alt_screen: false
color_profile: "256"
log_level: debug
accent_color: "#ff8000"
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		check(t, cfg)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "empty.toml", ""))
		if err != nil {
			t.Fatal(err)
		}
		def := DefaultConfig()
		if cfg.EscapeTimeout != def.EscapeTimeout || cfg.ExitKey != def.ExitKey || cfg.AccentColor != def.AccentColor {
			t.Errorf("got %+v, want %+v", cfg, def)
		}
		if !cfg.AltScreen || !cfg.HideCursor {
			t.Error("expected screen defaults kept")
		}
	})

	errorCases := []struct {
		name, file, content, want string
	}{
		{"unknown format", "loom.ini", "x=1", "unknown format"},
		{"bad toml", "loom.toml", "escape_timeout = ", "parse config"},
		{"bad duration", "loom.toml", `escape_timeout = "soon"`, "escape_timeout"},
		{"negative duration", "loom.toml", `escape_timeout = "-1s"`, "must be positive"},
		{"bad key", "loom.toml", `exit_key = "hyper+x"`, "exit_key"},
		{"bad profile", "loom.yaml", "color_profile: sepia", "unknown profile"},
		{"bad level", "loom.yaml", "log_level: loud", "log_level"},
		{"bad color", "loom.yaml", "accent_color: teal", "accent_color"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if err == nil || !strings.Contains(err.Error(), "read config") {
			t.Errorf("expected read error, got %v", err)
		}
	})
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff8000", RGB(255, 128, 0)},
		{"#000000", RGB(0, 0, 0)},
		{"3", BasicColor(3)},
		{"15", BasicColor(15)},
		{"16", PaletteColor(16)},
		{"200", PaletteColor(200)},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "256", "-1", "#ff80", "#gggggg", "red"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestParseProfile(t *testing.T) {
	tests := map[string]termenv.Profile{
		"truecolor": termenv.TrueColor,
		"24bit":     termenv.TrueColor,
		"256":       termenv.ANSI256,
		"ANSI":      termenv.ANSI,
		"16":        termenv.ANSI,
		"none":      termenv.Ascii,
	}
	for in, want := range tests {
		got, err := ParseProfile(in)
		if err != nil || got != want {
			t.Errorf("%s: got %v %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseProfile("auto"); err != nil {
		t.Errorf("auto: %v", err)
	}
	if _, err := ParseProfile("sepia"); err == nil {
		t.Error("expected an error")
	}
}
