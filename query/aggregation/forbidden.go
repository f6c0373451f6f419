// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package aggregation

import (
	"go.mongodb.org/mongo-driver/bson"
)

// forbiddenOperators are never accepted anywhere inside a pipeline stage:
// arbitrary-code accumulators, arbitrary function evaluation, and every
// cross-collection construct. A match fails the whole compilation.
var forbiddenOperators = map[string]bool{
	"$accumulator": true,
	"$function":    true,
	"$lookup":      true,
	"$unionWith":   true,
	"$graphLookup": true,
}

// findForbidden walks a stage body recursively, over all keys at every
// nesting level, and returns the first forbidden operator it encounters.
func findForbidden(v interface{}) (string, bool) {
	switch value := v.(type) {
	case map[string]interface{}:
		return findForbiddenMap(value)
	case bson.M:
		return findForbiddenMap(value)
	case []interface{}:
		for _, item := range value {
			if op, found := findForbidden(item); found {
				return op, true
			}
		}
	case bson.A:
		for _, item := range value {
			if op, found := findForbidden(item); found {
				return op, true
			}
		}
	case []bson.M:
		for _, item := range value {
			if op, found := findForbidden(item); found {
				return op, true
			}
		}
	}
	return "", false
}

func findForbiddenMap(m map[string]interface{}) (string, bool) {
	for key, value := range m {
		if forbiddenOperators[key] {
			return key, true
		}
		if op, found := findForbidden(value); found {
			return op, true
		}
	}
	return "", false
}
