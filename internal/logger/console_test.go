package logger

import (
	"bytes"
	"strings"
	"testing"
)

// TestLevelFiltering verifies messages below the configured level are
// suppressed.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.LogDebug("hidden")
	cl.LogInfo("hidden too")
	cl.LogWarn("visible")
	cl.LogError("also visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains suppressed messages: %q", out)
	}
	if !strings.Contains(out, "[WARN] visible") || !strings.Contains(out, "[ERROR] also visible") {
		t.Errorf("output missing expected messages: %q", out)
	}
}

// TestInvalidLevelDefaultsToInfo verifies the fallback level.
func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "loud")

	cl.LogDebug("hidden")
	cl.LogInfo("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug should be filtered at the default info level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("info should pass at the default level: %q", out)
	}
}

// TestNilWriterDiscards verifies a nil writer never panics.
func TestNilWriterDiscards(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")
	cl.LogInfo("discarded")
	cl.LogError("discarded")
}

// TestNoColorForPlainWriter verifies a bytes.Buffer never gets ANSI codes.
func TestNoColorForPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogError("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("non-TTY writer received ANSI codes: %q", buf.String())
	}
}

// TestNoOpLogger verifies the discard implementation satisfies Logger.
func TestNoOpLogger(t *testing.T) {
	var l Logger = NewNoOpLogger()
	l.LogDebug("x")
	l.LogInfo("x")
	l.LogWarn("x")
	l.LogError("x")
}
