// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	formsModels "github.com/formhive/formhive/forms/models"
	"github.com/formhive/formhive/query/models"
)

// leafContext carries everything a predicate builder needs: the resolved
// store path, the declared field type and the authored value.
type leafContext struct {
	path       string
	fieldType  formsModels.FieldType
	value      interface{}
	ignoreCase bool
}

// leafBuilder compiles one operator into a store-native predicate fragment.
// Returning ok=false drops the rule.
type leafBuilder func(leafContext) (bson.M, bool)

// leafBuilders maps every operator of the closed set to its builder. A new
// operator added to the enum without an entry here is dropped, never passed
// through half-compiled.
var leafBuilders = map[models.Operator]leafBuilder{
	models.OpEq:             buildEq,
	models.OpNeq:            buildNeq,
	models.OpGt:             buildOrdered("$gt"),
	models.OpGte:            buildOrdered("$gte"),
	models.OpLt:             buildOrdered("$lt"),
	models.OpLte:            buildOrdered("$lte"),
	models.OpContains:       buildContains,
	models.OpDoesNotContain: buildDoesNotContain,
	models.OpStartsWith:     buildAnchored(true),
	models.OpEndsWith:       buildAnchored(false),
	models.OpIsNull:         buildIsNull,
	models.OpIsNotNull:      buildIsNotNull,
	models.OpIsEmpty:        buildIsEmpty,
	models.OpIsNotEmpty:     buildIsNotEmpty,
}

// operatorAllowed is the operator x field-type allow-list. Anything not
// listed drops the rule entirely.
func operatorAllowed(op models.Operator, t formsModels.FieldType) bool {
	if t == formsModels.FieldTypeReferenceData {
		// Reference data is never queried server-side; those rules belong to
		// the in-memory evaluator.
		return false
	}

	switch op {
	case models.OpEq, models.OpNeq, models.OpIsNull, models.OpIsNotNull:
		return true
	case models.OpGt, models.OpGte, models.OpLt, models.OpLte:
		return t.IsNumericLike() || t.IsDateLike()
	case models.OpContains, models.OpDoesNotContain:
		return t == formsModels.FieldTypeText || t == formsModels.FieldTypeDropdown || t == formsModels.FieldTypeTagbox
	case models.OpStartsWith, models.OpEndsWith:
		return t == formsModels.FieldTypeText || t == formsModels.FieldTypeDropdown
	case models.OpIsEmpty, models.OpIsNotEmpty:
		return t == formsModels.FieldTypeText || t == formsModels.FieldTypeDropdown || t == formsModels.FieldTypeTagbox
	}
	return false
}

func buildEq(lc leafContext) (bson.M, bool) {
	switch {
	case lc.fieldType == formsModels.FieldTypeTagbox:
		set := coerceSet(lc.value)
		if set == nil {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$in": set}}, true

	case lc.fieldType.IsDateLike():
		t, ok := coerceInstant(lc.value, lc.fieldType)
		if !ok {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$eq": t}}, true

	case lc.fieldType.IsNumericLike():
		raw, parsed := coerceNumeric(lc.value)
		if parsed != nil {
			// Stored representation is ambiguous: match either.
			return bson.M{lc.path: bson.M{"$in": []interface{}{raw, *parsed}}}, true
		}
		return bson.M{lc.path: bson.M{"$eq": raw}}, true

	case lc.fieldType == formsModels.FieldTypeBoolean:
		b, ok := coerceBool(lc.value)
		if !ok {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$eq": b}}, true

	default:
		if s, ok := coerceString(lc.value); ok && lc.ignoreCase {
			return bson.M{lc.path: bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}}, true
		}
		return bson.M{lc.path: bson.M{"$eq": lc.value}}, true
	}
}

func buildNeq(lc leafContext) (bson.M, bool) {
	switch {
	case lc.fieldType == formsModels.FieldTypeTagbox:
		set := coerceSet(lc.value)
		if set == nil {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$nin": set}}, true

	case lc.fieldType.IsDateLike():
		t, ok := coerceInstant(lc.value, lc.fieldType)
		if !ok {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$ne": t}}, true

	case lc.fieldType.IsNumericLike():
		raw, parsed := coerceNumeric(lc.value)
		if parsed != nil {
			return bson.M{lc.path: bson.M{"$nin": []interface{}{raw, *parsed}}}, true
		}
		return bson.M{lc.path: bson.M{"$ne": raw}}, true

	case lc.fieldType == formsModels.FieldTypeBoolean:
		b, ok := coerceBool(lc.value)
		if !ok {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$ne": b}}, true

	default:
		if s, ok := coerceString(lc.value); ok && lc.ignoreCase {
			return bson.M{lc.path: bson.M{"$not": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}}}, true
		}
		return bson.M{lc.path: bson.M{"$ne": lc.value}}, true
	}
}

// buildOrdered compiles gt/gte/lt/lte against the coerced value.
func buildOrdered(mongoOp string) leafBuilder {
	return func(lc leafContext) (bson.M, bool) {
		if lc.fieldType.IsDateLike() {
			t, ok := coerceInstant(lc.value, lc.fieldType)
			if !ok {
				return nil, false
			}
			return bson.M{lc.path: bson.M{mongoOp: t}}, true
		}

		raw, parsed := coerceNumeric(lc.value)
		if parsed != nil {
			return bson.M{"$or": []bson.M{
				{lc.path: bson.M{mongoOp: raw}},
				{lc.path: bson.M{mongoOp: *parsed}},
			}}, true
		}
		return bson.M{lc.path: bson.M{mongoOp: raw}}, true
	}
}

func buildContains(lc leafContext) (bson.M, bool) {
	if lc.fieldType == formsModels.FieldTypeTagbox {
		set := coerceSet(lc.value)
		if set == nil {
			return nil, false
		}
		// Membership, never substring.
		return bson.M{lc.path: bson.M{"$in": set}}, true
	}

	// An array value on a scalar field still means membership.
	if _, isSlice := lc.value.([]interface{}); isSlice {
		return bson.M{lc.path: bson.M{"$in": coerceSet(lc.value)}}, true
	}

	s, ok := coerceString(lc.value)
	if !ok {
		return nil, false
	}
	return bson.M{lc.path: bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}}, true
}

func buildDoesNotContain(lc leafContext) (bson.M, bool) {
	if lc.fieldType == formsModels.FieldTypeTagbox {
		set := coerceSet(lc.value)
		if set == nil {
			return nil, false
		}
		return bson.M{lc.path: bson.M{"$nin": set}}, true
	}

	if _, isSlice := lc.value.([]interface{}); isSlice {
		return bson.M{lc.path: bson.M{"$nin": coerceSet(lc.value)}}, true
	}

	s, ok := coerceString(lc.value)
	if !ok {
		return nil, false
	}
	return bson.M{lc.path: bson.M{"$not": primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}}, true
}

// buildAnchored compiles startswith/endswith as anchored case-insensitive
// substring matches.
func buildAnchored(prefix bool) leafBuilder {
	return func(lc leafContext) (bson.M, bool) {
		s, ok := coerceString(lc.value)
		if !ok {
			return nil, false
		}
		pattern := regexp.QuoteMeta(s)
		if prefix {
			pattern = "^" + pattern
		} else {
			pattern = pattern + "$"
		}
		return bson.M{lc.path: bson.M{"$regex": pattern, "$options": "i"}}, true
	}
}

func buildIsNull(lc leafContext) (bson.M, bool) {
	return bson.M{lc.path: bson.M{"$eq": nil}}, true
}

func buildIsNotNull(lc leafContext) (bson.M, bool) {
	return bson.M{lc.path: bson.M{"$ne": nil}}, true
}

func buildIsEmpty(lc leafContext) (bson.M, bool) {
	if lc.fieldType == formsModels.FieldTypeTagbox {
		return bson.M{lc.path: bson.M{"$size": 0}}, true
	}
	return bson.M{lc.path: bson.M{"$eq": ""}}, true
}

func buildIsNotEmpty(lc leafContext) (bson.M, bool) {
	if lc.fieldType == formsModels.FieldTypeTagbox {
		return bson.M{lc.path: bson.M{"$not": bson.M{"$size": 0}}}, true
	}
	return bson.M{lc.path: bson.M{"$ne": ""}}, true
}
