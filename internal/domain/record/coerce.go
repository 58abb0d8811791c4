package record

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
)

// Canonical layouts for date and date-time values.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Coerce converts a decoded JSON value to the canonical Go value for the
// field's kind: string, int64, decimal.Decimal, or a formatted date string.
func Coerce(f Field, v any) (any, error) {
	var (
		out any
		err error
	)
	switch f.Kind {
	case KindInteger:
		out, err = toInteger(v)
	case KindNumber:
		out, err = toDecimal(v)
	case KindDate:
		out, err = toDate(v)
	case KindDateTime:
		out, err = toDateTime(v)
	default:
		out, err = toString(v)
	}
	if err != nil {
		return nil, shared.NewValidationError("Invalid value for %s: %v", f.Name, err)
	}

	if str, ok := out.(string); ok && len(f.Enum) > 0 {
		s := strings.ToUpper(str)
		if !slices.Contains(f.Enum, s) {
			return nil, shared.NewValidationError("Invalid value for %s: must be one of %s",
				f.Name, strings.Join(f.Enum, ", "))
		}
		out = s
	}
	return out, nil
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int, int32, int64:
		return fmt.Sprintf("%d", t), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", fmt.Errorf("unsupported type %T", v)
}

func toInteger(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%v is not an integer", t)
		}
		return int64(t), nil
	case json.Number:
		return strconv.ParseInt(t.String(), 10, 64)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%q is not a number", t)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("unsupported type %T", v)
}

// parseTime accepts a bare date, a date-time, or RFC 3339.
func parseTime(v any) (time.Time, bool, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false, fmt.Errorf("expected a date string, got %T", v)
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%q is not a date (use YYYY-MM-DD)", s)
}

func toDate(v any) (string, error) {
	t, _, err := parseTime(v)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

func toDateTime(v any) (string, error) {
	t, _, err := parseTime(v)
	if err != nil {
		return "", err
	}
	return t.Format(DateTimeLayout), nil
}

// DayBounds normalizes a bare date to the first or last second of that day.
// Values that already carry a time are returned canonicalized but unshifted.
func DayBounds(v string, upper bool) (string, error) {
	t, bare, err := parseTime(v)
	if err != nil {
		return "", err
	}
	if bare && upper {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Format(DateTimeLayout), nil
}
