// Package handlers implements the JSON REST surface consumed by the
// management front-end. Each resource gets one handler type registered
// on the shared ServeMux.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tunbiz/gestion/internal/httpx"
	"github.com/tunbiz/gestion/internal/validation"
)

// pathID extracts the {id} wildcard as an unsigned integer; writes a
// 400 and returns false when malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.PathValue(name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", map[string]string{name: "must_be_positive_integer"})
		return 0, false
	}
	return uint(n), true
}

// parseDate parses an optional YYYY-MM-DD string; records a violation
// on malformed input.
func parseDate(field, value string, v validation.Violations) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		v[field] = "invalid_date"
		return nil
	}
	return &t
}
