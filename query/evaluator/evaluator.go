// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package evaluator applies filter descriptors directly to in-memory values,
// for data sources that cannot be queried server-side: static choice lists
// and externally-fetched reference data. It mirrors the operator semantics
// of the predicate compiler, including the drop policy: a rule that cannot
// be evaluated constrains nothing, and an "or" whose children all drop is
// dropped itself.
package evaluator

import (
	"strconv"
	"strings"
	"time"

	"github.com/formhive/formhive/query/models"
)

// Matches reports whether the item satisfies the filter. A filter that drops
// entirely matches everything, the same way a dropped tree compiles to the
// unconstrained predicate.
func Matches(item map[string]interface{}, node models.FilterNode) bool {
	matched, ok := eval(item, node)
	if !ok {
		return true
	}
	return matched
}

// MatchesLeaf reports whether the item satisfies a single rule.
func MatchesLeaf(item map[string]interface{}, leaf models.FilterLeaf) bool {
	matched, ok := evalLeaf(item, leaf)
	if !ok {
		return true
	}
	return matched
}

// Filter returns the items satisfying the filter, preserving order.
func Filter(items []map[string]interface{}, node models.FilterNode) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if Matches(item, node) {
			result = append(result, item)
		}
	}
	return result
}

// eval returns (matched, ok); ok=false means the node dropped.
func eval(item map[string]interface{}, node models.FilterNode) (bool, bool) {
	switch {
	case node.Composite != nil:
		return evalComposite(item, node.Composite)
	case node.Leaf != nil:
		return evalLeaf(item, *node.Leaf)
	}
	return false, false
}

func evalComposite(item map[string]interface{}, composite *models.FilterComposite) (bool, bool) {
	if !composite.Logic.IsValid() {
		return false, false
	}

	// Authored-empty composites are the identity element of their logic.
	if len(composite.Filters) == 0 {
		return composite.Logic == models.LogicAnd, true
	}

	evaluated := 0
	if composite.Logic == models.LogicAnd {
		for _, child := range composite.Filters {
			matched, ok := eval(item, child)
			if !ok {
				continue
			}
			evaluated++
			if !matched {
				return false, true
			}
		}
		// All children dropped: the conjunction carries no constraint.
		return true, true
	}

	for _, child := range composite.Filters {
		matched, ok := eval(item, child)
		if !ok {
			continue
		}
		evaluated++
		if matched {
			return true, true
		}
	}
	if evaluated == 0 {
		// All children dropped: the disjunction drops and propagates.
		return false, false
	}
	return false, true
}

func evalLeaf(item map[string]interface{}, leaf models.FilterLeaf) (bool, bool) {
	if !leaf.Operator.IsValid() {
		return false, false
	}

	itemValue, _ := lookupPath(item, leaf.Field)

	switch leaf.Operator {
	case models.OpEq:
		return equal(itemValue, leaf.Value, leaf.IgnoreCase), true
	case models.OpNeq:
		return !equal(itemValue, leaf.Value, leaf.IgnoreCase), true

	case models.OpGt, models.OpGte, models.OpLt, models.OpLte:
		return evalOrdered(itemValue, leaf.Value, leaf.Operator)

	case models.OpContains:
		return evalContains(itemValue, leaf.Value)
	case models.OpDoesNotContain:
		matched, ok := evalContains(itemValue, leaf.Value)
		if !ok {
			return false, false
		}
		return !matched, true

	case models.OpStartsWith:
		return evalAnchored(itemValue, leaf.Value, true)
	case models.OpEndsWith:
		return evalAnchored(itemValue, leaf.Value, false)

	case models.OpIsNull:
		return itemValue == nil, true
	case models.OpIsNotNull:
		return itemValue != nil, true
	case models.OpIsEmpty:
		return isEmpty(itemValue), true
	case models.OpIsNotEmpty:
		return !isEmpty(itemValue), true
	}
	return false, false
}

// lookupPath resolves a dotted path through nested maps. Missing segments
// yield (nil, false); the nil value then behaves like a stored null.
func lookupPath(item map[string]interface{}, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	var current interface{} = item
	for _, segment := range segments {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// equal implements eq semantics: membership when either side is a set,
// numeric string/number equivalence, and optional case folding for strings.
func equal(itemValue, filterValue interface{}, ignoreCase bool) bool {
	if itemSet, ok := asSlice(itemValue); ok {
		filterSet := asMembershipSet(filterValue)
		for _, element := range itemSet {
			for _, candidate := range filterSet {
				if scalarEqual(element, candidate, ignoreCase) {
					return true
				}
			}
		}
		return false
	}

	if filterSet, ok := asSlice(filterValue); ok {
		for _, candidate := range filterSet {
			if scalarEqual(itemValue, candidate, ignoreCase) {
				return true
			}
		}
		return false
	}

	return scalarEqual(itemValue, filterValue, ignoreCase)
}

// scalarEqual mirrors compiled equality. Two strings compare as strings (the
// raw representation); numeric equivalence applies only across types, the way
// the compiled $in disjunction matches a parsed number against stored
// numbers but never rewrites a stored string.
func scalarEqual(a, b interface{}, ignoreCase bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		if at, ok := asInstant(a); ok {
			if bt, ok := asInstant(b); ok {
				return at.Equal(bt)
			}
		}
		if ignoreCase {
			return strings.EqualFold(as, bs)
		}
		return as == bs
	}

	if af, aok := asNumber(a); aok {
		if bf, bok := asNumber(b); bok {
			return af == bf
		}
	}

	if at, aok := asInstant(a); aok {
		if bt, bok := asInstant(b); bok {
			return at.Equal(bt)
		}
	}

	return a == b
}

// evalOrdered drops the rule when the filter value cannot be coerced,
// matching the compiler's coercion-failure policy. An incomparable item
// value simply does not match.
func evalOrdered(itemValue, filterValue interface{}, op models.Operator) (bool, bool) {
	cmp, comparable, coercible := compare(itemValue, filterValue)
	if !coercible {
		return false, false
	}
	if !comparable {
		return false, true
	}

	switch op {
	case models.OpGt:
		return cmp > 0, true
	case models.OpGte:
		return cmp >= 0, true
	case models.OpLt:
		return cmp < 0, true
	case models.OpLte:
		return cmp <= 0, true
	}
	return false, false
}

// compare orders itemValue against filterValue. coercible=false means the
// filter value itself is unusable; comparable=false means the item value
// does not live in the filter value's domain. Two strings order as strings
// unless both are instants; numeric ordering applies only across types,
// matching the compiled per-representation disjunction.
func compare(itemValue, filterValue interface{}) (cmp int, comparable, coercible bool) {
	if ft, ok := asInstant(filterValue); ok {
		it, ok := asInstant(itemValue)
		if !ok {
			return 0, false, true
		}
		switch {
		case it.Before(ft):
			return -1, true, true
		case it.After(ft):
			return 1, true, true
		}
		return 0, true, true
	}

	is, iok := itemValue.(string)
	fs, fok := filterValue.(string)
	if iok && fok {
		return strings.Compare(is, fs), true, true
	}

	if ff, ok := asNumber(filterValue); ok {
		fi, ok := asNumber(itemValue)
		if !ok {
			return 0, false, true
		}
		switch {
		case fi < ff:
			return -1, true, true
		case fi > ff:
			return 1, true, true
		}
		return 0, true, true
	}

	return 0, false, false
}

func evalContains(itemValue, filterValue interface{}) (bool, bool) {
	if itemSet, ok := asSlice(itemValue); ok {
		for _, element := range itemSet {
			for _, candidate := range asMembershipSet(filterValue) {
				if scalarEqual(element, candidate, false) {
					return true, true
				}
			}
		}
		return false, true
	}

	if filterSet, ok := asSlice(filterValue); ok {
		for _, candidate := range filterSet {
			if scalarEqual(itemValue, candidate, false) {
				return true, true
			}
		}
		return false, true
	}

	itemStr, iok := itemValue.(string)
	filterStr, fok := filterValue.(string)
	if !fok {
		return false, false
	}
	if !iok {
		return false, true
	}
	return strings.Contains(strings.ToLower(itemStr), strings.ToLower(filterStr)), true
}

func evalAnchored(itemValue, filterValue interface{}, prefix bool) (bool, bool) {
	filterStr, ok := filterValue.(string)
	if !ok {
		return false, false
	}
	itemStr, ok := itemValue.(string)
	if !ok {
		return false, true
	}

	lowered := strings.ToLower(itemStr)
	candidate := strings.ToLower(filterStr)
	if prefix {
		return strings.HasPrefix(lowered, candidate), true
	}
	return strings.HasSuffix(lowered, candidate), true
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

// asSlice normalizes slice shapes into []interface{}.
func asSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		set := make([]interface{}, len(v))
		for i, s := range v {
			set[i] = s
		}
		return set, true
	}
	return nil, false
}

// asMembershipSet treats scalars as single-element sets.
func asMembershipSet(value interface{}) []interface{} {
	if set, ok := asSlice(value); ok {
		return set
	}
	if value == nil {
		return nil
	}
	return []interface{}{value}
}

// asNumber coerces numbers and numeric strings to float64.
func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Accepted layouts for date-like strings, matching the predicate compiler.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// asInstant coerces time values and date-like strings to an absolute instant.
func asInstant(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		for _, layout := range instantLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
