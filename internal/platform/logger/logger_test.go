package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStdLogger_TextFormat_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatText, App: "tamagitchi", Writer: &buf})

	l.With(map[string]any{"partition": "DFW"}).Info("degraded", map[string]any{"updated": 2})

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "app=tamagitchi level=info msg=degraded partition=DFW ts=") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.HasSuffix(line, "updated=2") {
		t.Fatalf("expected updated field last: %q", line)
	}
}

func TestStdLogger_JSONFormat_ErrorsAsStrings(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, Writer: &buf})

	l.Error("persist failed", map[string]any{"err": errors.New("boom")})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json line: %v (%q)", err, buf.String())
	}
	if entry["err"] != "boom" || entry["level"] != "error" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestStdLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Writer: &buf})

	l.Info("ignored", nil)
	l.Debug("ignored", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}

	l.Warn("kept", nil)
	if !strings.Contains(buf.String(), "msg=kept") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if ParseLevel("WARNING") != Warn || ParseLevel("nope") != Info {
		t.Fatalf("unexpected level parsing")
	}
	if ParseFormat(" JSON ") != FormatJSON || ParseFormat("xml") != FormatText {
		t.Fatalf("unexpected format parsing")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf})

	if _, ok := FromContext(context.Background(), nil).(nopLogger); !ok {
		t.Fatalf("expected nop fallback")
	}

	ctx := WithContext(context.Background(), l.With(map[string]any{"request_id": "r-1"}))
	FromContext(ctx, nil).Info("hello", nil)

	if !strings.Contains(buf.String(), "request_id=r-1") {
		t.Fatalf("expected request_id from ctx logger, got %q", buf.String())
	}
}
