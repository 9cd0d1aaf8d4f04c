// internal/platform/logx/logx_test.go
package logx

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func newBuffered(lvl Level) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithOptions(Options{Level: lvl, Output: &buf}), &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"dbg", LevelDebug},
		{"  info  ", LevelInfo},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{"Warn", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{"garbage", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	logger, buf := newBuffered(LevelDebug)

	logger.Info("info message", "count", 42)

	out := buf.String()
	if !strings.Contains(out, "info message") {
		t.Errorf("output should contain message, got: %s", out)
	}
	if !strings.Contains(out, "42") || !strings.Contains(out, "count") {
		t.Errorf("output should contain kv pair, got: %s", out)
	}
}

func TestLogger_With_Immutable(t *testing.T) {
	logger, buf := newBuffered(LevelDebug)

	scoped := logger.With("source", "feed-a")
	logger.Info("original")
	first := buf.String()
	scoped.Info("scoped")
	second := strings.TrimPrefix(buf.String(), first)

	if strings.Contains(first, "feed-a") {
		t.Errorf("original logger output should not contain scope: %s", first)
	}
	if !strings.Contains(second, "feed-a") {
		t.Errorf("scoped logger output should contain scope: %s", second)
	}
}

func TestLogger_Err(t *testing.T) {
	logger, buf := newBuffered(LevelError)

	logger.Err(nil, "source", "db")
	if buf.Len() != 0 {
		t.Fatalf("nil error should not log anything, got: %s", buf.String())
	}

	logger.Err(errors.New("boom"), "source", "db")
	if !strings.Contains(buf.String(), "boom") || !strings.Contains(buf.String(), "ERROR") {
		t.Errorf("unexpected error output: %s", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		debug bool
		info  bool
		warn  bool
	}{
		{LevelDebug, true, true, true},
		{LevelInfo, false, true, true},
		{LevelWarn, false, false, true},
		{LevelError, false, false, false},
	}

	for _, tt := range tests {
		logger, buf := newBuffered(tt.level)
		logger.Debug("d-msg")
		logger.Info("i-msg")
		logger.Warn("w-msg")
		logger.Err(errors.New("e-msg"))

		out := buf.String()
		if strings.Contains(out, "d-msg") != tt.debug {
			t.Errorf("level %v: debug visibility mismatch: %s", tt.level, out)
		}
		if strings.Contains(out, "i-msg") != tt.info {
			t.Errorf("level %v: info visibility mismatch: %s", tt.level, out)
		}
		if strings.Contains(out, "w-msg") != tt.warn {
			t.Errorf("level %v: warn visibility mismatch: %s", tt.level, out)
		}
		if !strings.Contains(out, "e-msg") {
			t.Errorf("level %v: errors must always appear: %s", tt.level, out)
		}
	}
}

func TestLogger_SetLevelPropagates(t *testing.T) {
	logger, buf := newBuffered(LevelError)
	child := logger.With("k", "v")

	logger.SetLevel(LevelDebug)
	child.Debug("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("SetLevel on parent should affect derived loggers: %s", buf.String())
	}
}

func TestLogger_OddKV(t *testing.T) {
	logger, buf := newBuffered(LevelInfo)
	logger.Info("odd", "dangling")

	if !strings.Contains(buf.String(), "(missing)") {
		t.Errorf("dangling key should be padded, got: %s", buf.String())
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: LevelInfo, Format: "json", Output: &buf})
	logger.Info("hello", "source", "s1")

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, `"source":"s1"`) {
		t.Errorf("expected JSON line, got: %s", out)
	}
}

func TestLogger_ThreadSafety(t *testing.T) {
	logger, buf := newBuffered(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info("concurrent", "id", id, "iteration", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 500 {
		t.Errorf("expected 500 log lines, got %d", len(lines))
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", "k", "v")
	l.With("a", 1).Err(errors.New("ignored"))
}
