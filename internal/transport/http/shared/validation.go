package shared

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"haulboard/internal/platform/validate"
	"haulboard/internal/transport/http/api"
)

// Validator collects query and path issues before a handler calls a
// service.
type Validator struct {
	err validate.Error
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	v.err.Add(field, reason)
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if normalized == candidate {
			return
		}
	}
	v.Add(field, reason)
}

// IntRange parses raw as an integer within [min, max].
func (v *Validator) IntRange(field, raw string, min, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < min || n > max {
		v.Add(field, "must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
		return 0
	}
	return n
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(raw)
	if err != nil {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return parsed, true
}

func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
}

func (v *Validator) HasIssues() bool {
	return len(v.err.Issues) > 0
}

func (v *Validator) Err() error {
	return v.err.Err()
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if v.err.Err() == nil {
		return false
	}
	FailValidation(w, requestID, v.err.Issues)
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues []validate.Issue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}
