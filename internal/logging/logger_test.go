package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},        // Default
		{"invalid", slog.LevelInfo}, // Default for unknown
		{"trace", slog.LevelInfo},   // Unknown level defaults to info
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := parseLevel(tc.input)
			if result != tc.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.input, result, tc.expected)
			}
		})
	}
}

func TestNewLogger_Formats(t *testing.T) {
	testCases := []string{"json", "text", "JSON", "TEXT", "", "invalid"}

	for _, format := range testCases {
		t.Run(format, func(t *testing.T) {
			logger := NewLogger(format, "info", false)
			if logger == nil {
				t.Error("NewLogger returned nil")
			}
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	testCases := []string{"debug", "info", "warn", "error", "", "invalid"}

	for _, level := range testCases {
		t.Run(level, func(t *testing.T) {
			logger := NewLogger("json", level, false)
			if logger == nil {
				t.Error("NewLogger returned nil")
			}
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "json", "info")
	logger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "{") || !strings.Contains(output, "}") {
		t.Errorf("Expected JSON format, got: %s", output)
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected message in output, got: %s", output)
	}
	if !strings.Contains(output, `"key"`) {
		t.Errorf("Expected key in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "text", "info")
	logger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	t.Run("info_filters_debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "text", "info")

		logger.Debug("debug msg")
		logger.Info("info msg")

		output := buf.String()
		if strings.Contains(output, "debug msg") {
			t.Error("Info level should not log debug messages")
		}
		if !strings.Contains(output, "info msg") {
			t.Error("Info level should log info messages")
		}
	})

	t.Run("error_filters_warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "text", "error")

		logger.Warn("warn msg")
		logger.Error("error msg")

		output := buf.String()
		if strings.Contains(output, "warn msg") {
			t.Error("Error level should not log warn messages")
		}
		if !strings.Contains(output, "error msg") {
			t.Error("Error level should log error messages")
		}
	})
}

func TestNewLoggerWithWriter_DefaultFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "invalid", "info")
	logger.Info("test message")

	output := buf.String()
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Error("Default format should be text, not JSON")
	}
}

func TestSetDefault(t *testing.T) {
	originalDefault := slog.Default()
	defer slog.SetDefault(originalDefault)

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "info")

	SetDefault(logger)

	slog.Info("from default logger")
	if !strings.Contains(buf.String(), "from default logger") {
		t.Error("SetDefault did not set the default logger")
	}
}

// StderrClassifier tests

func TestNewStderrClassifier(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")

	h := NewStderrClassifier("job-1", logger, false)
	if h == nil {
		t.Fatal("NewStderrClassifier returned nil")
	}
	if h.context != "job-1" {
		t.Errorf("context = %q, want %q", h.context, "job-1")
	}
	if len(h.buffer) != MaxBufferedLines {
		t.Errorf("buffer length = %d, want %d", len(h.buffer), MaxBufferedLines)
	}
}

func TestStderrClassifier_HandleLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")

	h := NewStderrClassifier("job-1", logger, true)
	h.HandleLine("test line")

	lines := h.RecentLines(1)
	if len(lines) != 1 || lines[0] != "test line" {
		t.Errorf("RecentLines(1) = %v, want [%q]", lines, "test line")
	}
}

func TestStderrClassifier_HandleLine_Truncation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")

	h := NewStderrClassifier("job-1", logger, true)

	longLine := strings.Repeat("x", MaxLineLength+100)
	h.HandleLine(longLine)

	lines := h.RecentLines(1)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "...(truncated)") {
		t.Error("Truncated line should end with '...(truncated)'")
	}
}

func TestStderrClassifier_Consume(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")
	h := NewStderrClassifier("job-1", logger, true)

	input := "line1\nline2\nline3\n"
	if err := h.Consume(strings.NewReader(input)); err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}

	lines := h.RecentLines(3)
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
}

func TestStderrClassifier_CountErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")

	h := NewStderrClassifier("job-1", logger, false)

	h.HandleLine("Connection refused")
	h.HandleLine("Connection refused again")
	h.HandleLine("Server returned 404")
	h.HandleLine("normal line")
	h.HandleLine("timeout occurred")

	counts := h.CountErrors()
	if counts["Connection refused"] != 2 {
		t.Errorf("Connection refused count = %d, want 2", counts["Connection refused"])
	}
	if counts["404"] != 1 {
		t.Errorf("404 count = %d, want 1", counts["404"])
	}
	if counts["timeout"] != 1 {
		t.Errorf("timeout count = %d, want 1", counts["timeout"])
	}
}

func TestStderrClassifier_ClassifyLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")

	h := NewStderrClassifier("job-1", logger, true)

	testCases := []struct {
		line     string
		expected slog.Level
	}{
		{"[error] something failed", slog.LevelWarn},
		{"Connection refused", slog.LevelWarn},
		{"Server returned 500", slog.LevelWarn},
		{"[warning] something", slog.LevelWarn},
		{"Reconnecting to server", slog.LevelWarn},
		{"frame= 1234", slog.LevelDebug},
		{"speed=1.5x", slog.LevelDebug},
		{"some random output", slog.LevelDebug},
	}

	for _, tc := range testCases {
		got := h.classifyLine(tc.line)
		if got != tc.expected {
			t.Errorf("classifyLine(%q) = %v, want %v", tc.line, got, tc.expected)
		}
	}
}

func TestStderrClassifier_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "debug")
	h := NewStderrClassifier("job-1", logger, false)

	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			h.HandleLine("concurrent line")
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			_ = h.RecentLines(10)
			_ = h.CountErrors()
		}
		done <- true
	}()

	<-done
	<-done
}
