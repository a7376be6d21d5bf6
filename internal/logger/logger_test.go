package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qrebase.log")
	if err := Init(Options{Level: "debug", Path: path}); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Info("session saved", "path", "/tmp/git-rebase-todo")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session saved") || !strings.Contains(out, "INFO") {
		t.Fatalf("log missing entry:\n%s", out)
	}
	if !strings.Contains(out, "logger initialized") {
		t.Fatalf("debug level not applied:\n%s", out)
	}
}

func TestInitBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qrebase.log")
	if err := Init(Options{Level: "loud", Path: path}); err == nil {
		Close()
		t.Fatalf("expected error for unknown level")
	}
}

func TestDefaultLogPathEnv(t *testing.T) {
	t.Setenv("QREBASE_LOG_FILE", "/tmp/explicit.log")
	if got, _ := defaultLogPath(); got != "/tmp/explicit.log" {
		t.Fatalf("defaultLogPath = %q", got)
	}
	t.Setenv("QREBASE_LOG_FILE", "")
	t.Setenv("QREBASE_CONFIG_HOME", "/tmp/cfg")
	if got, _ := defaultLogPath(); got != "/tmp/cfg/qrebase.log" {
		t.Fatalf("defaultLogPath = %q", got)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Close()
	Debug("ignored")
	Warn("ignored")
	Error("ignored")
}
