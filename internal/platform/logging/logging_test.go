package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestErrorRecordsAreCopiedToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	var out bytes.Buffer
	logger := newLogger("local", &out, path)

	logger.Info("week loaded", "week", 12)
	logger.Error("payment fetch failed", "paymentId", "P1")

	if !strings.Contains(out.String(), "week loaded") || !strings.Contains(out.String(), "payment fetch failed") {
		t.Fatalf("expected both records on core output, got %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error log: %v", err)
	}
	if strings.Contains(string(data), "week loaded") {
		t.Fatal("info record must not reach the error log")
	}
	if !strings.Contains(string(data), "paymentId=P1") {
		t.Fatalf("expected error record in file, got %q", string(data))
	}
}

func TestDevelopmentUsesJSON(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger("development", &out, "")
	logger.Debug("hello")
	if !strings.HasPrefix(strings.TrimSpace(out.String()), "{") {
		t.Fatalf("expected json output, got %q", out.String())
	}
}
