package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New("debug")
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		" INFO ":   zerolog.InfoLevel,
		"error":    zerolog.ErrorLevel,
		"":         DefaultLevel,
		"chatty":   DefaultLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, "info")

	log.Info().Msg("test message")
	log.Debug().Msg("hidden")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
	if strings.Contains(output, "hidden") {
		t.Errorf("Debug message should be filtered at info level, got: %s", output)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf, "info")
	ctx := WithContext(context.Background(), testLog)

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.Disabled {
		t.Error("Expected default logger to be disabled")
	}
}

func TestWithQueryID(t *testing.T) {
	buf := &bytes.Buffer{}
	log, id := WithQueryID(NewWithWriter(buf, "info"))

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("Expected a UUID, got %q: %v", id, err)
	}
	log.Info().Msg("tagged")
	if !strings.Contains(buf.String(), `"query_id":"`+id+`"`) {
		t.Errorf("Expected query_id in output, got: %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf, "info"), map[string]any{
		"source": "ledger.csv",
		"rows":   3,
	})
	log.Info().Msg("loaded")

	output := buf.String()
	if !strings.Contains(output, `"source":"ledger.csv"`) || !strings.Contains(output, `"rows":3`) {
		t.Errorf("Expected fields in output, got: %s", output)
	}
}
