package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chatull.log")

	logger, err := New(path, false)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	logger.Info("hello")
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log should contain info entry: %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entries should be dropped unless verbose")
	}
}

func TestNew_Verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatull.log")

	logger, err := New(path, true)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("detail")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "detail") {
		t.Error("verbose logger should keep debug entries")
	}
}

func TestNew_EmptyPath(t *testing.T) {
	logger, err := New("", true)
	if err != nil || logger == nil {
		t.Fatalf("New(\"\") = %v, %v; want a no-op logger", logger, err)
	}
}
