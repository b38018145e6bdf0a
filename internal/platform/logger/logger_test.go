package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	kit "github.com/spektr-org/jobsift/internal/platform/testkit"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Component: "engine", Writer: &buf})
	l.Info().Int("records", 3).Msg("hello")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if got["component"] != "engine" {
		t.Fatalf("component = %v, want engine", got["component"])
	}
	if got["message"] != "hello" {
		t.Fatalf("message = %v, want hello", got["message"])
	}
	if got["records"] != float64(3) {
		t.Fatalf("records = %v, want 3", got["records"])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "json", Writer: &buf})
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %s", buf.String())
	}
	l.Warn().Msg("kept")
	kit.MustContain(t, buf.String(), "kept")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "yes")
	opt := FromEnv()
	if opt.Level != "debug" || opt.Format != "json" || !opt.WithCaller {
		t.Fatalf("FromEnv = %+v", opt)
	}
}
