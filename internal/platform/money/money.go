// Package money holds the single numeric coercion and currency formatting
// rules shared by aggregation, enrichment, financials and every renderer.
package money

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts an arbitrary decoded value into a finite float64. Anything
// that is not a number or a numeric string yields 0.
func Parse(value any) float64 {
	var out float64
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		out = v
	case float32:
		out = float64(v)
	case int:
		out = float64(v)
	case int32:
		out = float64(v)
	case int64:
		out = float64(v)
	case uint:
		out = float64(v)
	case uint64:
		out = float64(v)
	case Amount:
		out = float64(v)
	case json.Number:
		out = ParseString(string(v))
	case string:
		out = ParseString(v)
	case bool:
		return 0
	default:
		return 0
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// ParseString accepts plain decimals as well as "$1,234.50" style input.
func ParseString(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0
	}
	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = strings.TrimSpace(cleaned[1:])
	}
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	parsed := d.InexactFloat64()
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	if negative {
		parsed = -parsed
	}
	return parsed
}

// cents rounds half away from zero on the shortest decimal form of value, so
// 1.005 becomes 1.01 rather than the 1.00 binary multiplication gives.
func cents(value float64) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value).Round(2)
}

// Round2 rounds half away from zero to cents.
func Round2(value float64) float64 {
	return cents(value).InexactFloat64()
}

// FormatUSD renders a value as "$1,234.56". Negative values get a leading
// minus sign: "-$5.00".
func FormatUSD(value float64) string {
	rounded := cents(value)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

// FormatPlain renders a value with two decimals and no symbol.
func FormatPlain(value float64) string {
	return cents(value).StringFixed(2)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Sum adds values after coercing each through Parse.
func Sum(values ...any) float64 {
	total := 0.0
	for _, v := range values {
		total += Parse(v)
	}
	return total
}

// Amount is a monetary value decoded leniently from JSON: numbers, numeric
// strings and null are accepted, anything else decodes to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*a = 0
			return nil
		}
		*a = Amount(ParseString(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(Parse(n))
	return nil
}

func (a Amount) Float() float64 {
	return Parse(float64(a))
}
