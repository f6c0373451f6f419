// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	uuid "github.com/gofrs/uuid"
)

// SourceType names where a reference data set's items come from.
type SourceType string

const (
	// SourceStatic holds its items inline on the definition.
	SourceStatic SourceType = "static"
	// SourcePostgres fetches its items from a relational table.
	SourcePostgres SourceType = "postgres"
)

// IsValid reports whether the source type belongs to the closed set.
func (t SourceType) IsValid() bool {
	return t == SourceStatic || t == SourcePostgres
}

// ReferenceData is an externally-defined lookup set that referenceData
// fields draw their values from. External sources cannot be queried with
// compiled predicates, so filtering happens in memory after the fetch.
type ReferenceData struct {
	ID    uuid.UUID                `json:"id" bson:"_id"`
	Name  string                   `json:"name" bson:"name"`
	Type  SourceType               `json:"type" bson:"type"`
	Items []map[string]interface{} `json:"items,omitempty" bson:"items,omitempty"`
	Table string                   `json:"table,omitempty" bson:"table,omitempty"`
}
