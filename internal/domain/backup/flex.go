package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The snapshot document is produced by more than one writer, so scalar
// fields arrive in more than one JSON shape: ids as numbers or strings,
// prices as numbers or strings, dates as strings or structured values.
// The Flex types below absorb that variation at decode time.

// SourceID is an identifier carried inside an imported record. It is a
// transient label meaningful only within its snapshot and is superseded by
// a newly assigned identifier on creation.
type SourceID struct {
	value   string
	present bool
}

// UnmarshalJSON accepts a JSON string, number, or null
func (s *SourceID) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = SourceID{}
	case string:
		*s = SourceID{value: t, present: t != ""}
	case float64:
		*s = SourceID{value: formatJSONNumber(t), present: true}
	default:
		return fmt.Errorf("identifier must be a string or number, got %T", v)
	}
	return nil
}

// Present reports whether the record carried a source identifier
func (s SourceID) Present() bool {
	return s.present
}

// String returns the identifier as a string label
func (s SourceID) String() string {
	return s.value
}

// FlexString accepts a JSON string or number and yields a string
type FlexString struct {
	value   string
	present bool
}

// UnmarshalJSON accepts a JSON string, number, or null
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = FlexString{}
	case string:
		*f = FlexString{value: t, present: true}
	case float64:
		*f = FlexString{value: formatJSONNumber(t), present: true}
	default:
		return fmt.Errorf("value must be a string or number, got %T", v)
	}
	return nil
}

// Present reports whether the field carried a value
func (f FlexString) Present() bool {
	return f.present
}

// String returns the value as a string
func (f FlexString) String() string {
	return f.value
}

// IsEmpty reports whether the value is absent or blank
func (f FlexString) IsEmpty() bool {
	return !f.present || strings.TrimSpace(f.value) == ""
}

// FlexInt accepts a JSON number or numeric string
type FlexInt struct {
	value   int
	present bool
}

// UnmarshalJSON accepts a JSON number, numeric string, or null
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = FlexInt{}
	case float64:
		*f = FlexInt{value: int(t), present: true}
	case string:
		if strings.TrimSpace(t) == "" {
			*f = FlexInt{}
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("value %q is not numeric", t)
		}
		*f = FlexInt{value: n, present: true}
	default:
		return fmt.Errorf("value must be a number, got %T", v)
	}
	return nil
}

// Or returns the value, or def when the field was absent
func (f FlexInt) Or(def int) int {
	if !f.present {
		return def
	}
	return f.value
}

// Present reports whether the field carried a value
func (f FlexInt) Present() bool {
	return f.present
}

// dateLayouts are tried in order when parsing a date-like string
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// FlexDate accepts null, a date-like string, or a structured date value.
// An unparseable value leaves the date invalid instead of failing the
// decode; the reconciler logs it and stores null.
type FlexDate struct {
	t       time.Time
	raw     string
	present bool
	valid   bool
}

// UnmarshalJSON never rejects the value; parse failures are recorded so the
// caller can log them
func (f *FlexDate) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		// Not reachable for scalar input; structured garbage is recorded
		// as an invalid value rather than a decode failure
		*f = FlexDate{raw: string(data), present: true}
		return nil
	}
	switch t := v.(type) {
	case nil:
		*f = FlexDate{}
	case string:
		*f = parseDateString(t)
	case float64:
		// Unix timestamp, milliseconds when the magnitude says so
		sec := int64(t)
		if sec > 1e12 {
			sec /= 1000
		}
		*f = FlexDate{t: time.Unix(sec, 0).UTC(), raw: formatJSONNumber(t), present: true, valid: true}
	case map[string]any:
		// Mongo-style {"$date": "..."} and similar structured shapes
		if inner, ok := t["$date"].(string); ok {
			*f = parseDateString(inner)
		} else {
			*f = FlexDate{raw: string(data), present: true}
		}
	default:
		*f = FlexDate{raw: string(data), present: true}
	}
	return nil
}

func parseDateString(s string) FlexDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexDate{}
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return FlexDate{t: parsed, raw: s, present: true, valid: true}
		}
	}
	return FlexDate{raw: s, present: true}
}

// Present reports whether the field carried a value
func (f FlexDate) Present() bool {
	return f.present
}

// Valid reports whether the carried value parsed as a date
func (f FlexDate) Valid() bool {
	return f.valid
}

// Time returns the parsed date; only meaningful when Valid
func (f FlexDate) Time() time.Time {
	return f.t
}

// Raw returns the original value for logging
func (f FlexDate) Raw() string {
	return f.raw
}

func formatJSONNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
