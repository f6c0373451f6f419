// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package aggregation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	formsModels "github.com/formhive/formhive/forms/models"
	formsServices "github.com/formhive/formhive/forms/services"
	queryErrors "github.com/formhive/formhive/query/errors"
)

func testSnapshot() *formsServices.CatalogSnapshot {
	fields := []formsModels.FieldDescriptor{
		{Name: "country", Type: formsModels.FieldTypeDropdown},
		{Name: "total", Type: formsModels.FieldTypeNumeric},
		{Name: "orderDate", Type: formsModels.FieldTypeDate},
	}
	return formsServices.NewCatalogSnapshot(fields, nil, 3)
}

func stage(t *testing.T, stageType formsModels.StageType, body string) formsModels.PipelineStage {
	t.Helper()
	return formsModels.PipelineStage{Type: stageType, Form: json.RawMessage(body)}
}

func TestCompileGroupByCountryWithSum(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageGroup, `{
			"groupBy": [{"field": "country", "expression": {"operator": "", "field": "country"}}],
			"addFields": [{"name": "totalSum", "expression": {"operator": "sum", "field": "total"}}]
		}`),
	})

	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, bson.M{"$group": bson.M{
		"_id":      bson.M{"country": "$country"},
		"totalSum": bson.M{"$sum": "$total"},
	}}, pipeline[0])
}

func TestCompileGroupByMonthComputedKey(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageGroup, `{
			"groupBy": [{"field": "orderDate", "expression": {"operator": "month", "field": "orderDate"}}],
			"addFields": [{"name": "count", "expression": {"operator": "count", "field": ""}}]
		}`),
	})

	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, bson.M{"$group": bson.M{
		"_id":   bson.M{"orderDate": bson.M{"$month": "$orderDate"}},
		"count": bson.M{"$sum": 1},
	}}, pipeline[0])
}

func TestCompileFilterStageUsesFlatPaths(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageFilter, `{
			"logic": "and",
			"filters": [{"field": "total", "operator": "gte", "value": 100}]
		}`),
	})

	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, bson.M{"$match": bson.M{"total": bson.M{"$gte": 100.0}}}, pipeline[0])
}

func TestCompileSortStage(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageSort, `{"field": "totalSum", "order": "desc"}`),
	})

	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, bson.M{"$sort": bson.M{"totalSum": -1}}, pipeline[0])
}

func TestCompileSortStageWithoutFieldDrops(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageSort, `{"field": "", "order": "asc"}`),
	})

	require.NoError(t, err)
	assert.Empty(t, pipeline)
}

func TestCompileUnwindStage(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageUnwind, `{"field": "items"}`),
	})

	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, bson.M{"$unwind": "$items"}, pipeline[0])
}

func TestCompileCustomStagePassesThrough(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageCustom, `{"$limit": 10}`),
	})

	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, bson.M{"$limit": 10.0}, pipeline[0])
}

func TestForbiddenOperatorAtTopLevelRejects(t *testing.T) {
	c := NewCompiler(testSnapshot())

	_, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageCustom, `{"$lookup": {"from": "users"}}`),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, queryErrors.ErrForbiddenOperator))
}

func TestForbiddenOperatorDeeplyNestedRejectsWholePipeline(t *testing.T) {
	c := NewCompiler(testSnapshot())

	_, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageSort, `{"field": "country", "order": "asc"}`),
		stage(t, formsModels.StageCustom, `{
			"$facet": {
				"branch": [
					{"$addFields": {"x": {"$function": {"body": "function(){}", "args": [], "lang": "js"}}}}
				]
			}
		}`),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, queryErrors.ErrForbiddenOperator))

	var queryErr *queryErrors.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, queryErrors.CodeForbiddenOperator, queryErr.Code)
	assert.Equal(t, "$function", queryErr.Operator)
}

func TestForbiddenScanRunsBeforeAnyCompilation(t *testing.T) {
	c := NewCompiler(testSnapshot())

	pipeline, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageGroup, `{"groupBy": [{"field": "country", "expression": {"operator": "", "field": "country"}}]}`),
		stage(t, formsModels.StageCustom, `{"$accumulator": {}}`),
	})

	require.Error(t, err)
	assert.Nil(t, pipeline, "a rejected pipeline must not leak compiled stages")
}

func TestCompileUnknownStageTypeFails(t *testing.T) {
	c := NewCompiler(testSnapshot())

	_, err := c.CompilePipeline([]formsModels.PipelineStage{
		stage(t, formsModels.StageType("explode"), `{}`),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, queryErrors.ErrInvalidStage))
}

func TestCompileAggregationPrependsContextAndProjection(t *testing.T) {
	c := NewCompiler(testSnapshot())

	agg := &formsModels.Aggregation{
		SourceFields: []string{"country", "total", "ghost"},
		Pipeline: []formsModels.PipelineStage{
			stage(t, formsModels.StageSort, `{"field": "total", "order": "asc"}`),
		},
	}
	contextFilter := bson.M{"form": "f1"}

	pipeline, err := c.CompileAggregation(agg, contextFilter)

	require.NoError(t, err)
	require.Len(t, pipeline, 3)
	assert.Equal(t, bson.M{"$match": contextFilter}, pipeline[0])
	// Unresolvable source fields are skipped, not failed.
	assert.Equal(t, bson.M{"$project": bson.M{
		"country": "$data.country",
		"total":   "$data.total",
	}}, pipeline[1])
	assert.Equal(t, bson.M{"$sort": bson.M{"total": 1}}, pipeline[2])
}
