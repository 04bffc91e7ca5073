package wire

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 42, "b": " P-7 ", "c": null}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.A != "42" || payload.A.Int() != 42 {
		t.Fatalf("unexpected numeric id: %q", payload.A)
	}
	if payload.B != "P-7" || payload.B.Int() != 0 {
		t.Fatalf("unexpected string id: %q", payload.B)
	}
	if payload.C != "" {
		t.Fatalf("expected empty id for null, got %q", payload.C)
	}
}

func TestIDRejectsObjects(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatal("expected error for object id")
	}
}
