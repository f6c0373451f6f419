// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package aggregation

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/formhive/formhive/query/models"
)

// accumulatorExpr maps an accumulator/default operator onto its store-native
// expression over the referenced field. Every member of the closed enum has
// an entry; anything else reports false and the computed entry is dropped.
func accumulatorExpr(op models.AccumulatorOp, field string) (interface{}, bool) {
	ref := "$" + field

	switch op {
	case models.AccSum:
		return bson.M{"$sum": ref}, true
	case models.AccAvg:
		return bson.M{"$avg": ref}, true
	case models.AccMax:
		return bson.M{"$max": ref}, true
	case models.AccMin:
		return bson.M{"$min": ref}, true
	case models.AccFirst:
		return bson.M{"$first": ref}, true
	case models.AccLast:
		return bson.M{"$last": ref}, true
	case models.AccCount:
		// Row count; the field name is ignored.
		return bson.M{"$sum": 1}, true
	case models.AccYear:
		return bson.M{"$year": ref}, true
	case models.AccMonth:
		return bson.M{"$month": ref}, true
	case models.AccWeek:
		return bson.M{"$week": ref}, true
	case models.AccDay:
		return bson.M{"$dayOfMonth": ref}, true
	case models.AccAdd:
		return bson.M{"$add": ref}, true
	case models.AccMultiply:
		return bson.M{"$multiply": ref}, true
	}
	return nil, false
}
