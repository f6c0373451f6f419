// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	formsModels "github.com/formhive/formhive/forms/models"
	formsServices "github.com/formhive/formhive/forms/services"
	"github.com/formhive/formhive/query/models"
)

var (
	employerFormID  = uuid.Must(uuid.FromString("11111111-1111-1111-1111-111111111111"))
	applicantFormID = uuid.Must(uuid.FromString("22222222-2222-2222-2222-222222222222"))
)

// testSnapshot builds a catalog with one field of every queryable shape plus
// a two-hop resource chain: applicant -> employer.
func testSnapshot() *formsServices.CatalogSnapshot {
	fields := []formsModels.FieldDescriptor{
		{Name: "name", Type: formsModels.FieldTypeText},
		{Name: "age", Type: formsModels.FieldTypeNumeric},
		{Name: "active", Type: formsModels.FieldTypeBoolean},
		{Name: "birthday", Type: formsModels.FieldTypeDate},
		{Name: "tags", Type: formsModels.FieldTypeTagbox},
		{Name: "country", Type: formsModels.FieldTypeDropdown},
		{Name: "lookup", Type: formsModels.FieldTypeReferenceData},
		{Name: "applicant", Type: formsModels.FieldTypeResource, ReferencedForm: applicantFormID},
	}
	referenced := map[uuid.UUID][]formsModels.FieldDescriptor{
		applicantFormID: {
			{Name: "name", Type: formsModels.FieldTypeText},
			{Name: "employer", Type: formsModels.FieldTypeResource, ReferencedForm: employerFormID},
		},
		employerFormID: {
			{Name: "company", Type: formsModels.FieldTypeText},
		},
	}
	return formsServices.NewCatalogSnapshot(fields, referenced, 3)
}

func leaf(field string, op models.Operator, value interface{}) models.FilterNode {
	return models.Node(models.FilterLeaf{Field: field, Operator: op, Value: value})
}

func TestCompileEmptyAndMatchesEverything(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.Compile(models.Node(models.FilterComposite{Logic: models.LogicAnd}))

	require.True(t, ok)
	assert.Equal(t, bson.M{}, predicate)
}

func TestCompileEmptyOrMatchesNothing(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.Compile(models.Node(models.FilterComposite{Logic: models.LogicOr}))

	require.True(t, ok)
	assert.Equal(t, MatchNone(), predicate)
}

func TestCompileLeafTagboxContainsIsMembership(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "tags",
		Operator: models.OpContains,
		Value:    []interface{}{"red", "blue"},
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.tags": bson.M{"$in": []interface{}{"red", "blue"}}}, predicate)
}

func TestCompileLeafTagboxEqScalarBecomesSingletonSet(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "tags",
		Operator: models.OpEq,
		Value:    "red",
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.tags": bson.M{"$in": []interface{}{"red"}}}, predicate)
}

func TestCompileLeafNumericStringMatchesBothRepresentations(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "age",
		Operator: models.OpEq,
		Value:    "42",
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.age": bson.M{"$in": []interface{}{"42", 42.0}}}, predicate)
}

func TestCompileLeafDateGte(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "birthday",
		Operator: models.OpGte,
		Value:    "2024-03-01",
	})

	require.True(t, ok)
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"data.birthday": bson.M{"$gte": want}}, predicate)
}

func TestCompileLeafMalformedDateDrops(t *testing.T) {
	c := New(testSnapshot())

	_, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "birthday",
		Operator: models.OpGte,
		Value:    "not-a-date",
	})

	assert.False(t, ok)
}

func TestCompileLeafUnresolvableFieldDrops(t *testing.T) {
	c := New(testSnapshot())

	_, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "deleted",
		Operator: models.OpEq,
		Value:    "x",
	})

	assert.False(t, ok)
}

func TestCompileLeafOrderedOnTextDrops(t *testing.T) {
	c := New(testSnapshot())

	_, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "name",
		Operator: models.OpGt,
		Value:    "m",
	})

	assert.False(t, ok)
}

func TestCompileLeafReferenceDataDrops(t *testing.T) {
	c := New(testSnapshot())

	_, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "lookup",
		Operator: models.OpEq,
		Value:    "x",
	})

	assert.False(t, ok)
}

func TestCompileLeafResourceHopPath(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "applicant.name",
		Operator: models.OpEq,
		Value:    "Ada",
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.applicant.data.name": bson.M{"$eq": "Ada"}}, predicate)
}

func TestCompileLeafTwoHopPath(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "applicant.employer.company",
		Operator: models.OpEq,
		Value:    "FormHive",
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.applicant.data.employer.data.company": bson.M{"$eq": "FormHive"}}, predicate)
}

func TestCompileLeafDepthCapDrops(t *testing.T) {
	fields := []formsModels.FieldDescriptor{
		{Name: "self", Type: formsModels.FieldTypeResource, ReferencedForm: applicantFormID},
		{Name: "name", Type: formsModels.FieldTypeText},
	}
	referenced := map[uuid.UUID][]formsModels.FieldDescriptor{applicantFormID: fields}
	c := New(formsServices.NewCatalogSnapshot(fields, referenced, 2))

	_, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "self.self.name",
		Operator: models.OpEq,
		Value:    "x",
	})
	assert.True(t, ok, "two hops within depth")

	_, ok = c.CompileLeaf(models.FilterLeaf{
		Field:    "self.self.self.name",
		Operator: models.OpEq,
		Value:    "x",
	})
	assert.False(t, ok, "third hop exceeds depth")
}

func TestCompileAndAbsorbsDroppedChild(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.Compile(models.Node(models.FilterComposite{
		Logic: models.LogicAnd,
		Filters: []models.FilterNode{
			leaf("name", models.OpEq, "Ada"),
			leaf("deleted", models.OpEq, "x"),
		},
	}))

	require.True(t, ok)
	// The surviving child stands alone; no $and wrapper for one clause.
	assert.Equal(t, bson.M{"data.name": bson.M{"$eq": "Ada"}}, predicate)
}

func TestCompileAndAllChildrenDroppedMatchesEverything(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.Compile(models.Node(models.FilterComposite{
		Logic: models.LogicAnd,
		Filters: []models.FilterNode{
			leaf("deleted", models.OpEq, "x"),
			leaf("alsoGone", models.OpEq, "y"),
		},
	}))

	require.True(t, ok)
	assert.Equal(t, bson.M{}, predicate)
}

func TestCompileOrAllChildrenDroppedPropagates(t *testing.T) {
	c := New(testSnapshot())

	_, ok := c.Compile(models.Node(models.FilterComposite{
		Logic: models.LogicOr,
		Filters: []models.FilterNode{
			leaf("deleted", models.OpEq, "x"),
			leaf("alsoGone", models.OpEq, "y"),
		},
	}))

	assert.False(t, ok, "the drop must propagate to the enclosing composite")
}

func TestCompileDroppedOrElidedFromEnclosingAnd(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.Compile(models.Node(models.FilterComposite{
		Logic: models.LogicAnd,
		Filters: []models.FilterNode{
			leaf("name", models.OpEq, "Ada"),
			models.Node(models.FilterComposite{
				Logic: models.LogicOr,
				Filters: []models.FilterNode{
					leaf("deleted", models.OpEq, "x"),
				},
			}),
		},
	}))

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.name": bson.M{"$eq": "Ada"}}, predicate)
}

func TestCompileNestedTree(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.Compile(models.Node(models.FilterComposite{
		Logic: models.LogicAnd,
		Filters: []models.FilterNode{
			leaf("active", models.OpEq, true),
			models.Node(models.FilterComposite{
				Logic: models.LogicOr,
				Filters: []models.FilterNode{
					leaf("age", models.OpGte, 18.0),
					leaf("tags", models.OpContains, []interface{}{"vip"}),
				},
			}),
		},
	}))

	require.True(t, ok)
	assert.Equal(t, bson.M{"$and": []bson.M{
		{"data.active": bson.M{"$eq": true}},
		{"$or": []bson.M{
			{"data.age": bson.M{"$gte": 18.0}},
			{"data.tags": bson.M{"$in": []interface{}{"vip"}}},
		}},
	}}, predicate)
}

func TestCompileDefaultFieldWinsCollision(t *testing.T) {
	fields := []formsModels.FieldDescriptor{
		// A declared field shadowing a default name still resolves to the
		// default, at its unprefixed path.
		{Name: "createdAt", Type: formsModels.FieldTypeText},
	}
	c := New(formsServices.NewCatalogSnapshot(fields, nil, 3))

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "createdAt",
		Operator: models.OpGte,
		Value:    "2024-01-01",
	})

	require.True(t, ok)
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"createdAt": bson.M{"$gte": want}}, predicate)
}

func TestCompileIdMapsToStoreKey(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "id",
		Operator: models.OpEq,
		Value:    "abc",
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": bson.M{"$eq": "abc"}}, predicate)
}

func TestCompileIgnoreCaseEq(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:      "name",
		Operator:   models.OpEq,
		Value:      "ada",
		IgnoreCase: true,
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.name": bson.M{"$regex": "^ada$", "$options": "i"}}, predicate)
}

func TestCompileFlatPathsUseAuthoredNames(t *testing.T) {
	c := New(testSnapshot(), FlatPaths())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "name",
		Operator: models.OpEq,
		Value:    "Ada",
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"name": bson.M{"$eq": "Ada"}}, predicate)
}

func TestCompileIsEmptyOnTagboxUsesSize(t *testing.T) {
	c := New(testSnapshot())

	predicate, ok := c.CompileLeaf(models.FilterLeaf{
		Field:    "tags",
		Operator: models.OpIsEmpty,
	})

	require.True(t, ok)
	assert.Equal(t, bson.M{"data.tags": bson.M{"$size": 0}}, predicate)
}

func TestBuildSearchCoversSearchableFields(t *testing.T) {
	c := New(testSnapshot())

	predicate := c.BuildSearch("a(b")

	clauses, ok := predicate["$or"].([]bson.M)
	require.True(t, ok)
	// The text and dropdown fields only; the id is not a string in the store.
	assert.Len(t, clauses, 2)
	assert.Contains(t, clauses, bson.M{"data.name": bson.M{"$regex": `a\(b`, "$options": "i"}})
	assert.Contains(t, clauses, bson.M{"data.country": bson.M{"$regex": `a\(b`, "$options": "i"}})
	assert.NotContains(t, clauses, bson.M{"_id": bson.M{"$regex": `a\(b`, "$options": "i"}})
}

func TestBuildSearchEmptyTextMatchesEverything(t *testing.T) {
	c := New(testSnapshot())

	assert.Equal(t, bson.M{}, c.BuildSearch(""))
}

func TestCompileFilterDroppedTreeMatchesEverything(t *testing.T) {
	c := New(testSnapshot())

	predicate := c.CompileFilter(models.Node(models.FilterComposite{
		Logic: models.LogicOr,
		Filters: []models.FilterNode{
			leaf("deleted", models.OpEq, "x"),
		},
	}))

	assert.Equal(t, bson.M{}, predicate)
}
