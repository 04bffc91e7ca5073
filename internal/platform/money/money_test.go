package money

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numeric string", "100.25", 100.25},
		{"currency string", "$1,234.50", 1234.5},
		{"negative currency", "-$5", -5},
		{"garbage", "abc", 0},
		{"empty", "  ", 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
		{"json number", json.Number("3.5"), 3.5},
		{"struct", struct{}{}, 0},
	}
	for _, tc := range cases {
		if got := Parse(tc.input); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := map[float64]string{
		0:          "$0.00",
		5:          "$5.00",
		1234.567:   "$1,234.57",
		-5:         "-$5.00",
		1000000:    "$1,000,000.00",
		999.999:    "$1,000.00",
		0.004:      "$0.00",
		123456.7:   "$123,456.70",
		-98765.432: "-$98,765.43",
	}
	for input, want := range cases {
		if got := FormatUSD(input); got != want {
			t.Fatalf("FormatUSD(%v): expected %q, got %q", input, want, got)
		}
	}
}

func TestRound2HalfCents(t *testing.T) {
	cases := map[float64]float64{
		1.005:  1.01,
		2.675:  2.68,
		-1.005: -1.01,
		0.125:  0.13,
		-0.004: 0,
	}
	for input, want := range cases {
		if got := Round2(input); got != want {
			t.Fatalf("Round2(%v): expected %v, got %v", input, want, got)
		}
	}
	if got := FormatPlain(-0.004); got != "0.00" {
		t.Fatalf("expected 0.00, got %q", got)
	}
}

func TestAmountUnmarshal(t *testing.T) {
	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
		E Amount `json:"e"`
	}
	raw := `{"a": 10.5, "b": "20", "c": null, "d": "n/a", "e": {"x": 1}}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.A != 10.5 || payload.B != 20 || payload.C != 0 || payload.D != 0 || payload.E != 0 {
		t.Fatalf("unexpected amounts: %+v", payload)
	}
}

func TestSum(t *testing.T) {
	if got := Sum(1, "2", nil, "bad", 3.5); got != 6.5 {
		t.Fatalf("expected 6.5, got %v", got)
	}
}
