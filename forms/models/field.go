// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	uuid "github.com/gofrs/uuid"
)

// FieldType is the closed set of field types a form designer can declare.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeNumeric       FieldType = "numeric"
	FieldTypeDecimal       FieldType = "decimal"
	FieldTypeBoolean       FieldType = "boolean"
	FieldTypeDate          FieldType = "date"
	FieldTypeDatetime      FieldType = "datetime"
	FieldTypeDatetimeLocal FieldType = "datetime-local"
	FieldTypeTime          FieldType = "time"
	FieldTypeDropdown      FieldType = "dropdown"
	FieldTypeTagbox        FieldType = "tagbox"
	FieldTypeResource      FieldType = "resource"
	FieldTypeResources     FieldType = "resources"
	FieldTypeReferenceData FieldType = "referenceData"
)

// IsValid reports whether the field type belongs to the closed set.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumeric, FieldTypeDecimal, FieldTypeBoolean,
		FieldTypeDate, FieldTypeDatetime, FieldTypeDatetimeLocal, FieldTypeTime,
		FieldTypeDropdown, FieldTypeTagbox, FieldTypeResource, FieldTypeResources,
		FieldTypeReferenceData:
		return true
	}
	return false
}

// IsResource reports whether the field references records of another form,
// so that dotted paths can hop into the referenced form's own catalog.
func (t FieldType) IsResource() bool {
	return t == FieldTypeResource || t == FieldTypeResources
}

// IsDateLike reports whether values of this type coerce to an absolute instant.
func (t FieldType) IsDateLike() bool {
	switch t {
	case FieldTypeDate, FieldTypeDatetime, FieldTypeDatetimeLocal, FieldTypeTime:
		return true
	}
	return false
}

// IsNumericLike reports whether values of this type are compared numerically.
func (t FieldType) IsNumericLike() bool {
	return t == FieldTypeNumeric || t == FieldTypeDecimal
}

// Choice is one selectable option of a dropdown or tagbox field.
type Choice struct {
	Value string `json:"value" bson:"value"`
	Label string `json:"label" bson:"label"`
}

// FieldDescriptor describes one declared field of a form's catalog.
// ReferencedForm is set for resource/resources fields and links the
// descriptor to the catalog the nested path segments resolve against.
type FieldDescriptor struct {
	Name           string    `json:"name" bson:"name"`
	Type           FieldType `json:"type" bson:"type"`
	ReferencedForm uuid.UUID `json:"referencedForm,omitempty" bson:"referencedForm,omitempty"`
	Choices        []Choice  `json:"choices,omitempty" bson:"choices,omitempty"`
}
