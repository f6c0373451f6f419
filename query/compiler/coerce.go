// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"strconv"
	"time"

	"github.com/formhive/formhive/forms/models"
)

// Accepted layouts for date-like values authored by the UI.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Accepted layouts for time-of-day values.
var timeLayouts = []string{
	"15:04:05",
	"15:04",
}

// coerceInstant parses a date-like value into an absolute instant. Time-typed
// values land on epoch day 1970-01-01 UTC so ordered comparison works.
func coerceInstant(value interface{}, fieldType models.FieldType) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		return t.UTC(), true
	}
	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}

	if fieldType == models.FieldTypeTime {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Date(1970, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// coerceNumeric returns the raw value plus a parallel numeric parse when the
// authored value is a numeric string. Different write paths persisted the
// same logical value as either representation, so the compiled predicate has
// to match both.
func coerceNumeric(value interface{}) (raw interface{}, parsed *float64) {
	switch v := value.(type) {
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return v, &f
		}
		return v, nil
	default:
		return value, nil
	}
}

// coerceBool parses a boolean value, accepting the string forms the UI emits.
func coerceBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	return false, false
}

// coerceSet normalizes a value into a membership set. Scalars become
// single-element sets so eq/contains on tagbox fields behave uniformly.
func coerceSet(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []string:
		set := make([]interface{}, len(v))
		for i, s := range v {
			set[i] = s
		}
		return set
	case nil:
		return nil
	default:
		return []interface{}{value}
	}
}

// coerceString extracts a string value, failing on anything else.
func coerceString(value interface{}) (string, bool) {
	s, ok := value.(string)
	return s, ok
}
