package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/zfogg/otakulist/pkg/config"
)

func TestLoggingBeforeInitIsSafe(t *testing.T) {
	logger = nil
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}

func TestInitWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	if err := config.Init(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatal(err)
	}

	Init(true)
	if GetLogger() == nil {
		t.Fatal("logger should be initialized")
	}
	if GetLogger().GetLevel() != log.DebugLevel {
		t.Errorf("verbose should select debug level, got %v", GetLogger().GetLevel())
	}
}

func TestSetOutputFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel)

	Info("hidden message")
	Warn("reorder rolled back", "list_id", "l1")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, "reorder rolled back") || !strings.Contains(out, "list_id=l1") {
		t.Errorf("unexpected log output: %q", out)
	}
}
