// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formhive/formhive/forms/models"
)

var (
	companyFormID = uuid.Must(uuid.FromString("aaaaaaaa-0000-0000-0000-000000000001"))
	personFormID  = uuid.Must(uuid.FromString("aaaaaaaa-0000-0000-0000-000000000002"))
)

func snapshotFixture(depth int) *CatalogSnapshot {
	fields := []models.FieldDescriptor{
		{Name: "title", Type: models.FieldTypeText},
		{Name: "owner", Type: models.FieldTypeResource, ReferencedForm: personFormID},
	}
	referenced := map[uuid.UUID][]models.FieldDescriptor{
		personFormID: {
			{Name: "name", Type: models.FieldTypeText},
			{Name: "employer", Type: models.FieldTypeResource, ReferencedForm: companyFormID},
		},
		companyFormID: {
			{Name: "companyName", Type: models.FieldTypeText},
		},
	}
	return NewCatalogSnapshot(fields, referenced, depth)
}

func TestResolveDeclaredField(t *testing.T) {
	snap := snapshotFixture(3)

	desc, ok := snap.Resolve("title")

	require.True(t, ok)
	assert.Equal(t, models.FieldTypeText, desc.Type)
}

func TestResolveDefaultFieldWinsCollision(t *testing.T) {
	snap := NewCatalogSnapshot([]models.FieldDescriptor{
		{Name: "createdAt", Type: models.FieldTypeText},
	}, nil, 3)

	desc, ok := snap.Resolve("createdAt")

	require.True(t, ok)
	assert.Equal(t, models.FieldTypeDatetime, desc.Type, "the implicit field shadows the declared one")
}

func TestStorePathDefaultsAreUnprefixed(t *testing.T) {
	snap := snapshotFixture(3)

	tests := map[string]string{
		"id":         "_id",
		"createdAt":  "createdAt",
		"modifiedAt": "modifiedAt",
		"form":       "form",
		"title":      "data.title",
	}
	for field, want := range tests {
		path, _, ok := snap.StorePath(field)
		require.True(t, ok, field)
		assert.Equal(t, want, path)
	}
}

func TestStorePathResourceHops(t *testing.T) {
	snap := snapshotFixture(3)

	path, desc, ok := snap.StorePath("owner.name")
	require.True(t, ok)
	assert.Equal(t, "data.owner.data.name", path)
	assert.Equal(t, models.FieldTypeText, desc.Type)

	path, _, ok = snap.StorePath("owner.employer.companyName")
	require.True(t, ok)
	assert.Equal(t, "data.owner.data.employer.data.companyName", path)
}

func TestStorePathDefaultFieldInsideReferencedRecord(t *testing.T) {
	snap := snapshotFixture(3)

	path, _, ok := snap.StorePath("owner.id")

	require.True(t, ok)
	assert.Equal(t, "data.owner._id", path)
}

func TestResolveUnknownFieldFails(t *testing.T) {
	snap := snapshotFixture(3)

	_, ok := snap.Resolve("ghost")
	assert.False(t, ok)

	_, ok = snap.Resolve("owner.ghost")
	assert.False(t, ok)
}

func TestResolveHopThroughNonResourceFails(t *testing.T) {
	snap := snapshotFixture(3)

	_, ok := snap.Resolve("title.anything")
	assert.False(t, ok)
}

func TestResolveDepthCap(t *testing.T) {
	selfID := personFormID
	fields := []models.FieldDescriptor{
		{Name: "parent", Type: models.FieldTypeResource, ReferencedForm: selfID},
		{Name: "name", Type: models.FieldTypeText},
	}
	snap := NewCatalogSnapshot(fields, map[uuid.UUID][]models.FieldDescriptor{selfID: fields}, 2)

	_, ok := snap.Resolve("parent.parent.name")
	assert.True(t, ok, "two hops within the cap")

	_, ok = snap.Resolve("parent.parent.parent.name")
	assert.False(t, ok, "third hop exceeds the cap")
}

func TestResolveMissingReferencedCatalogFails(t *testing.T) {
	fields := []models.FieldDescriptor{
		{Name: "owner", Type: models.FieldTypeResource, ReferencedForm: personFormID},
	}
	snap := NewCatalogSnapshot(fields, nil, 3)

	// The referenced catalog never loaded; paths through it are unresolvable.
	_, ok := snap.Resolve("owner.name")
	assert.False(t, ok)
}

func TestSearchableStorePaths(t *testing.T) {
	snap := NewCatalogSnapshot([]models.FieldDescriptor{
		{Name: "title", Type: models.FieldTypeText},
		{Name: "country", Type: models.FieldTypeDropdown},
		{Name: "total", Type: models.FieldTypeNumeric},
	}, nil, 3)

	paths := snap.SearchableStorePaths()

	assert.Equal(t, []string{"data.title", "data.country"}, paths,
		"the record id is not searchable text")
}
