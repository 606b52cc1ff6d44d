package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goeq.log")

	logger, err := New(WithFile(path), WithLevel("debug"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("scheduler tick")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "scheduler tick") {
		t.Fatalf("log file missing entry: %s", data)
	}
}

func TestWithLevelFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goeq.log")

	logger, err := New(WithFile(path), WithLevel("warn"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Fatalf("unexpected log contents: %s", data)
	}
}

func TestNewDefaultsToHomeLogDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logger, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	entries, err := os.ReadDir(filepath.Join(home, ".goeq", "logs"))
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "goeq_") {
		t.Fatalf("unexpected log dir contents: %v", entries)
	}
}
