package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	t.Parallel()

	fields := StringFields(
		StringField{Key: "  block  ", Value: "  A  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "block" || fields[0].String != "A" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	fallback := WithFields(nil, zap.String("baz", "qux"))
	if fallback == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	fallback.Info("another log")
}

func TestMatchFields(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	long := strings.Repeat("n", 50)

	zap.New(core).Info("ranked", MatchFields("c-1", long, 89)...)

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldCandidateID] != "c-1" {
		t.Fatalf("unexpected id: %v", ctx[FieldCandidateID])
	}
	if ctx[FieldCandidateName] != strings.Repeat("n", 40)+"..." {
		t.Fatalf("expected truncated name, got %v", ctx[FieldCandidateName])
	}
	if ctx[FieldScore] != int64(89) {
		t.Fatalf("unexpected score: %v", ctx[FieldScore])
	}

	if fields := CandidateFields("", ""); len(fields) != 0 {
		t.Fatalf("expected empty values to be dropped, got %d", len(fields))
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "returns empty when limit non-positive", input: "hello world", limit: 0, expect: ""},
		{name: "shorter than limit", input: "hello", limit: 10, expect: "hello"},
		{name: "truncates and adds ellipsis", input: "hello world", limit: 5, expect: "hello..."},
		{name: "trims surrounding whitespace", input: "  spaced  ", limit: 5, expect: "space..."},
		{name: "counts runes", input: "привет мир", limit: 6, expect: "привет..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	l, err := New(true, true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestForComponent(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)

	ForComponent(zap.New(core), "http", zap.String("address", ":8080")).Info("listening")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "http" {
		t.Fatalf("expected logger name http, got %q", entries[0].LoggerName)
	}
	if ctx := entries[0].ContextMap(); ctx["address"] != ":8080" {
		t.Fatalf("expected address field, got %v", ctx)
	}

	// nil base must not panic
	ForComponent(nil, "ranking").Info("ignored")
}
