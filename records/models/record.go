// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	uuid "github.com/gofrs/uuid"
)

// Record is one submitted entry of a form. Declared field values live under
// the Data envelope keyed by field name; everything else is a default field
// present on every record regardless of the form's schema.
type Record struct {
	ObjectId       uuid.UUID              `json:"objectId" bson:"_id"`
	IncrementalID  int64                  `json:"incrementalId" bson:"incrementalId"`
	FormID         uuid.UUID              `json:"form" bson:"form"`
	Data           map[string]interface{} `json:"data" bson:"data"`
	CreatedBy      string                 `json:"createdBy" bson:"createdBy"`
	CreatedDate    int64                  `json:"createdAt" bson:"createdAt"`
	LastUpdated    int64                  `json:"modifiedAt" bson:"modifiedAt"`
	LastUpdateForm uuid.UUID              `json:"lastUpdateForm" bson:"lastUpdateForm"`
}

// AggregationRow is one row of an aggregation result. Shape depends on the
// pipeline, so it stays schemaless.
type AggregationRow map[string]interface{}
