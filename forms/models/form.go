// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"encoding/json"

	uuid "github.com/gofrs/uuid"
)

// Form is a user-defined record schema. Records created against a form carry
// its id and are validated and queried through its field catalog.
type Form struct {
	ObjectId     uuid.UUID         `json:"objectId" bson:"_id"`
	Name         string            `json:"name" bson:"name"`
	Fields       []FieldDescriptor `json:"fields" bson:"fields"`
	Aggregations []Aggregation     `json:"aggregations,omitempty" bson:"aggregations,omitempty"`
	CreatedDate  int64             `json:"createdDate" bson:"createdDate"`
	LastUpdated  int64             `json:"lastUpdated" bson:"lastUpdated"`
}

// Aggregation is a user-authored multi-stage summary over the owning form's
// records. It has no lifecycle of its own: it is created and edited with the
// form and consumed read-only at query time.
type Aggregation struct {
	ID           uuid.UUID       `json:"id" bson:"id"`
	Name         string          `json:"name" bson:"name"`
	SourceFields []string        `json:"sourceFields" bson:"sourceFields"`
	Pipeline     []PipelineStage `json:"pipeline" bson:"pipeline"`
}

// AggregationByID returns the aggregation with the given id, if the form owns one.
func (f *Form) AggregationByID(id uuid.UUID) (*Aggregation, bool) {
	for i := range f.Aggregations {
		if f.Aggregations[i].ID == id {
			return &f.Aggregations[i], true
		}
	}
	return nil, false
}

// StageType names one kind of aggregation pipeline stage.
type StageType string

const (
	StageFilter    StageType = "filter"
	StageSort      StageType = "sort"
	StageGroup     StageType = "group"
	StageAddFields StageType = "addFields"
	StageUnwind    StageType = "unwind"
	StageCustom    StageType = "custom"
)

// IsValid reports whether the stage type belongs to the closed set.
func (t StageType) IsValid() bool {
	switch t {
	case StageFilter, StageSort, StageGroup, StageAddFields, StageUnwind, StageCustom:
		return true
	}
	return false
}

// PipelineStage is one authored step of an aggregation. Form carries the
// stage-specific body and is decoded by the pipeline compiler according to Type.
type PipelineStage struct {
	Type StageType       `json:"type" bson:"type"`
	Form json.RawMessage `json:"form" bson:"form"`
}
