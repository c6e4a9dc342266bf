package utils

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetApplicationVersionPrefersLinkedVersion(t *testing.T) {
	previous := Version
	t.Cleanup(func() { Version = previous })

	Version = "v1.2.3"
	if version := GetApplicationVersion(); version != "v1.2.3" {
		t.Fatalf("expected linked version, got %q", version)
	}
}

func TestFindGitRepository(t *testing.T) {
	repositoryRoot := t.TempDir()
	if err := os.Mkdir(filepath.Join(repositoryRoot, GitDirectoryName), 0o755); err != nil {
		t.Fatalf("create git directory: %v", err)
	}
	nested := filepath.Join(repositoryRoot, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("create nested directory: %v", err)
	}

	found, err := findGitRepository(nested)
	if err != nil {
		t.Fatalf("findGitRepository error: %v", err)
	}
	if found != repositoryRoot {
		t.Fatalf("expected %s, got %s", repositoryRoot, found)
	}
}

func TestNewApplicationLoggerFollowsAtomicLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger, err := NewApplicationLogger(level)
	if err != nil {
		t.Fatalf("NewApplicationLogger error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug disabled at info level")
	}
	level.SetLevel(zapcore.DebugLevel)
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug enabled after lowering the level")
	}
}
