package usecase

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"remita-course-enrolment/internal/domain"
)

// Callback is the shape-validated inbound gateway callback.
type Callback struct {
	RRR         string // gateway transaction reference
	APIHash     string
	Reference   string // our payment reference, when the gateway echoes it
	AmountMinor int64
	Currency    string
	UserID      int64
	CourseID    int64
	InstanceID  int64
}

// ParseCallback validates the raw form fields of an inbound callback
// (Received -> ShapeValidated). Field names outside the alphanumeric
// allow-list and array-valued fields are rejected outright; the composite
// custom field must split into userId-courseId-instanceId.
func ParseCallback(form url.Values) (*Callback, error) {
	fields := make(map[string]string, len(form))
	for key, values := range form {
		if !isAlnumExt(key) {
			return nil, fmt.Errorf("%w: unexpected field name %q", domain.ErrMalformedInput, key)
		}
		if len(values) != 1 {
			return nil, fmt.Errorf("%w: unexpected array param %q", domain.ErrMalformedInput, key)
		}
		fields[key] = values[0]
	}

	cb := &Callback{
		RRR:       fields["rrr"],
		APIHash:   fields["apiHash"],
		Reference: fields["reference"],
		Currency:  fields["currency_code"],
	}
	if cb.RRR == "" {
		return nil, fmt.Errorf("%w: missing rrr", domain.ErrMalformedInput)
	}
	if cb.APIHash == "" {
		return nil, fmt.Errorf("%w: missing apiHash", domain.ErrMalformedInput)
	}

	custom := fields["custom"]
	if custom == "" {
		return nil, fmt.Errorf("%w: missing custom", domain.ErrMalformedInput)
	}
	parts := strings.Split(custom, "-")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: invalid custom value", domain.ErrMalformedInput)
	}
	var err error
	if cb.UserID, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: invalid user id in custom", domain.ErrMalformedInput)
	}
	if cb.CourseID, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: invalid course id in custom", domain.ErrMalformedInput)
	}
	if cb.InstanceID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: invalid instance id in custom", domain.ErrMalformedInput)
	}

	if raw := fields["amount"]; raw != "" {
		cb.AmountMinor, err = parseAmountMinor(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid amount %q", domain.ErrMalformedInput, raw)
		}
	}
	return cb, nil
}

// isAlnumExt mirrors the allow-listed character set for field names:
// letters, digits, underscore and hyphen.
func isAlnumExt(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// parseAmountMinor accepts either a plain integer of minor units or a
// decimal major-unit amount ("50.00").
func parseAmountMinor(raw string) (int64, error) {
	if !strings.Contains(raw, ".") {
		return strconv.ParseInt(raw, 10, 64)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}
