package dataset

import (
	"strconv"
	"strings"
	"time"
)

// missingTokens are the textual forms treated as missing cells when
// building columns from raw strings.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissingToken reports whether a raw string denotes a missing cell
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// timestampLayouts are tried in order when parsing timestamp cells
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseTimestamp parses a raw string against the supported layouts
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ParseBool parses a raw string as a boolean cell
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "1":
		return true, true
	case "false", "f", "no", "0":
		return false, true
	default:
		return false, false
	}
}

// InferType scans raw string values and picks the narrowest declared type
// that can represent all non-missing values. The order of preference is
// integer, float, boolean, timestamp, string.
func InferType(raw []string) Type {
	isInt, isFloat, isBool, isTime := true, true, true, true
	seen := false

	for _, s := range raw {
		if IsMissingToken(s) {
			continue
		}
		seen = true
		s = strings.TrimSpace(s)

		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := ParseBool(s); !ok {
				isBool = false
			}
		}
		if isTime {
			if _, ok := ParseTimestamp(s); !ok {
				isTime = false
			}
		}
		if !isInt && !isFloat && !isBool && !isTime {
			return TypeString
		}
	}

	if !seen {
		return TypeString
	}
	switch {
	case isInt:
		return TypeInteger
	case isFloat:
		return TypeFloat
	case isBool:
		return TypeBoolean
	case isTime:
		return TypeTimestamp
	default:
		return TypeString
	}
}

// ColumnFromStrings builds a column of the given type from raw strings,
// mapping missing tokens and unparsable values to missing cells. It is the
// lenient construction path used by loaders; strict parsing belongs to the
// type converter.
func ColumnFromStrings(name string, dtype Type, raw []string) *Column {
	cells := make([]interface{}, len(raw))
	for i, s := range raw {
		if IsMissingToken(s) {
			continue
		}
		s = strings.TrimSpace(s)
		switch dtype {
		case TypeInteger:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				cells[i] = n
			}
		case TypeFloat:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				cells[i] = f
			}
		case TypeBoolean:
			if b, ok := ParseBool(s); ok {
				cells[i] = b
			}
		case TypeTimestamp:
			if ts, ok := ParseTimestamp(s); ok {
				cells[i] = ts
			}
		default:
			cells[i] = s
		}
	}
	return Derived(name, dtype, cells)
}
