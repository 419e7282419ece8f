package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":    DebugLevel,
		"WARN":     WarnLevel,
		" error ":  ErrorLevel,
		"disabled": DisabledLevel,
		"":         InfoLevel,
		"verbose":  InfoLevel,
	}
	for input, expect := range cases {
		if got := ParseLevel(input); got != expect {
			t.Fatalf("ParseLevel(%q) = %q, expected %q", input, got, expect)
		}
	}
}

func TestConfigureWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	lgr := Configure(Config{Level: DebugLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	lgr.Info().Str("component", "test").Msg("hello")

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if decoded["message"] != "hello" || decoded["component"] != "test" {
		t.Fatalf("unexpected log line: %v", decoded)
	}
}

func TestConfigureRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: ErrorLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at error level, got %q", buf.String())
	}
	Error().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}
