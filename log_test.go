package loom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	logger.Info("node replaced", "from", "TextView")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug filtered, got %q", out)
	}
	if !strings.Contains(out, "loom") || !strings.Contains(out, "node replaced") || !strings.Contains(out, "TextView") {
		t.Errorf("got %q", out)
	}
}

func TestOpenLog(t *testing.T) {
	t.Run("empty path discards", func(t *testing.T) {
		logger, closer, err := OpenLog("", log.DebugLevel)
		if err != nil {
			t.Fatal(err)
		}
		logger.Info("nowhere")
		if err := closer.Close(); err != nil {
			t.Error(err)
		}
	})

	t.Run("appends to the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "loom.log")
		for _, msg := range []string{"first", "second"} {
			logger, closer, err := OpenLog(path, log.InfoLevel)
			if err != nil {
				t.Fatal(err)
			}
			logger.Info(msg)
			closer.Close()
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
			t.Errorf("got %q", data)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		_, _, err := OpenLog(filepath.Join(t.TempDir(), "missing", "loom.log"), log.InfoLevel)
		if err == nil || !strings.Contains(err.Error(), "open log file") {
			t.Errorf("expected open error, got %v", err)
		}
	})
}
