package pkg

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	orig := GetLogLevel()
	defer SetLogLevel(orig)

	SetLogLevel(slog.LevelDebug)
	if got := GetLogLevel(); got != slog.LevelDebug {
		t.Errorf("GetLogLevel() = %v, want %v", got, slog.LevelDebug)
	}

	SetLogLevel(slog.LevelError)
	if got := GetLogLevel(); got != slog.LevelError {
		t.Errorf("GetLogLevel() = %v, want %v", got, slog.LevelError)
	}
}

func TestLogComponentTag(t *testing.T) {
	orig := DefaultLogger
	origLevel := GetLogLevel()
	defer func() {
		SetLogger(orig)
		SetLogLevel(origLevel)
	}()

	var buf bytes.Buffer
	SetLogLevel(slog.LevelDebug)
	SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogInfo(ComponentPump, "partial drain", "accepted", 3, "pending", 5)

	out := buf.String()
	if !strings.Contains(out, "component=pump") {
		t.Errorf("log output missing component tag: %q", out)
	}
	if !strings.Contains(out, "partial drain") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "accepted=3") {
		t.Errorf("log output missing attribute: %q", out)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	orig := DefaultLogger
	origLevel := GetLogLevel()
	defer func() {
		SetLogger(orig)
		SetLogLevel(origLevel)
	}()

	var buf bytes.Buffer
	SetLogLevel(slog.LevelWarn)
	SetLogger(NewLogger(&buf, nil))

	LogDebug(ComponentBridge, "should be filtered")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at warn level: %q", buf.String())
	}

	LogWarn(ComponentBridge, "should appear")
	if buf.Len() == 0 {
		t.Error("warn message filtered at warn level")
	}
}
