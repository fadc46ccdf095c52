package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesLogFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	// Warn is above the default level so the rotating file gets created.
	Warn("rest timer state discarded", "age", "2h")

	logFile := filepath.Join(configDir, "logs", "hybridmaster.log")
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("expected log file %s: %v", logFile, err)
	}
}

func TestInitDebugQuiet(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: true, Quiet: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	Debug("store probe", "available", true)
	Info("workout finished", "week", 3)
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
