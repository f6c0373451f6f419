// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"strings"

	uuid "github.com/gofrs/uuid"

	"github.com/formhive/formhive/forms/models"
)

// Default fields are implicitly available on every record regardless of the
// declared catalog, and win name collisions against declared fields.
var defaultFields = []models.FieldDescriptor{
	{Name: "id", Type: models.FieldTypeText},
	{Name: "incrementalId", Type: models.FieldTypeNumeric},
	{Name: "createdAt", Type: models.FieldTypeDatetime},
	{Name: "modifiedAt", Type: models.FieldTypeDatetime},
	{Name: "form", Type: models.FieldTypeText},
	{Name: "lastUpdateForm", Type: models.FieldTypeText},
}

// defaultStorePaths maps default field names onto the record document layout.
// Default fields live unprefixed at the document root; "id" is the store key.
var defaultStorePaths = map[string]string{
	"id":             "_id",
	"incrementalId":  "incrementalId",
	"createdAt":      "createdAt",
	"modifiedAt":     "modifiedAt",
	"form":           "form",
	"lastUpdateForm": "lastUpdateForm",
}

// CatalogSnapshot is an immutable view of a form's field catalog plus every
// referenced-form catalog reachable within the resolve depth. All I/O happens
// while the snapshot is built; resolution against a snapshot is pure.
type CatalogSnapshot struct {
	FormID       uuid.UUID
	Fields       []models.FieldDescriptor
	Referenced   map[uuid.UUID][]models.FieldDescriptor
	ResolveDepth int
}

// NewCatalogSnapshot builds a snapshot from already-materialized catalogs.
// Useful for tests and for callers that manage their own schema loading.
func NewCatalogSnapshot(fields []models.FieldDescriptor, referenced map[uuid.UUID][]models.FieldDescriptor, depth int) *CatalogSnapshot {
	if referenced == nil {
		referenced = map[uuid.UUID][]models.FieldDescriptor{}
	}
	if depth < 1 {
		depth = defaultResolveDepth
	}
	return &CatalogSnapshot{Fields: fields, Referenced: referenced, ResolveDepth: depth}
}

// Resolve resolves a dotted path against the catalog and returns the declared
// descriptor of the final segment. Unresolvable paths return (nil, false);
// callers drop the offending rule rather than raising an error.
func (s *CatalogSnapshot) Resolve(path string) (*models.FieldDescriptor, bool) {
	desc, _, ok := s.walk(path)
	return desc, ok
}

// StorePath resolves a dotted path and returns both the descriptor and the
// path of the value inside the stored record document. Default fields map
// unprefixed; declared fields live under the "data" envelope, and each
// resource hop descends into the embedded record's own envelope.
func (s *CatalogSnapshot) StorePath(path string) (string, *models.FieldDescriptor, bool) {
	desc, storePath, ok := s.walk(path)
	return storePath, desc, ok
}

func (s *CatalogSnapshot) walk(path string) (*models.FieldDescriptor, string, bool) {
	segments := strings.Split(path, ".")
	if len(segments) == 0 || segments[0] == "" {
		return nil, "", false
	}

	fields := s.Fields
	prefix := ""

	for i, segment := range segments {
		desc, isDefault := lookupField(segment, fields)
		if desc == nil {
			return nil, "", false
		}

		var storePath string
		if isDefault {
			storePath = joinPath(prefix, defaultStorePaths[segment])
		} else {
			storePath = joinPath(prefix, "data."+segment)
		}

		last := i == len(segments)-1
		if last {
			return desc, storePath, true
		}

		// More segments: this one must hop into a referenced catalog.
		if !desc.Type.IsResource() {
			return nil, "", false
		}
		if i+1 > s.ResolveDepth {
			// Depth cap counts hops, protecting against self-referential schemas.
			return nil, "", false
		}
		referenced, ok := s.Referenced[desc.ReferencedForm]
		if !ok {
			return nil, "", false
		}
		fields = referenced
		prefix = storePath
	}

	return nil, "", false
}

// lookupField finds a field by name, giving default fields priority.
func lookupField(name string, declared []models.FieldDescriptor) (*models.FieldDescriptor, bool) {
	for i := range defaultFields {
		if defaultFields[i].Name == name {
			return &defaultFields[i], true
		}
	}
	for i := range declared {
		if declared[i].Name == name {
			return &declared[i], false
		}
	}
	return nil, false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// SearchableStorePaths lists the store paths of fields usable for free-text
// search: declared text and dropdown fields. The record id is excluded; it is
// not stored as a string, so a regex clause against it selects nothing.
func (s *CatalogSnapshot) SearchableStorePaths() []string {
	var paths []string
	for _, field := range s.Fields {
		switch field.Type {
		case models.FieldTypeText, models.FieldTypeDropdown:
			paths = append(paths, "data."+field.Name)
		}
	}
	return paths
}
