package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders an audited value as stored in change history.
// nil stays nil so the column is written as SQL NULL.
//
// Floats use the shortest representation that round-trips, always with a
// fractional part ("1000.0", "1234.5"), and switch to exponent form below 1e-4
// or from 1e16 upward ("1e+16").
func FormatValue(v any) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case int64:
		s = strconv.FormatInt(val, 10)
	case int:
		s = strconv.Itoa(val)
	case float64:
		s = FormatFloat(val)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}
	return &s
}

// FormatFloat renders f the way the audit log stores prices and areas.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
