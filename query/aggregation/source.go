// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package aggregation

import (
	"go.mongodb.org/mongo-driver/bson"

	formsModels "github.com/formhive/formhive/forms/models"
)

// CompileAggregation compiles a form-owned aggregation into an executable
// pipeline. The context filter (form scope conjoined with the caller's
// access predicate) is prepended as the first match stage, and the source
// fields are projected flat before the authored stages run, so stage bodies
// address fields by their authored names.
func (c *Compiler) CompileAggregation(agg *formsModels.Aggregation, contextFilter bson.M) ([]bson.M, error) {
	authored, err := c.CompilePipeline(agg.Pipeline)
	if err != nil {
		return nil, err
	}

	pipeline := make([]bson.M, 0, len(authored)+2)
	if contextFilter != nil {
		pipeline = append(pipeline, bson.M{"$match": contextFilter})
	}
	if projection := c.sourceProjection(agg.SourceFields); len(projection) > 0 {
		pipeline = append(pipeline, bson.M{"$project": projection})
	}
	return append(pipeline, authored...), nil
}

// sourceProjection maps each source field from its store path onto a flat
// top-level name. Fields that no longer resolve are left out, which makes
// downstream stages referencing them degrade the same way dropped filter
// rules do.
func (c *Compiler) sourceProjection(sourceFields []string) bson.M {
	projection := bson.M{}
	for _, field := range sourceFields {
		path, _, ok := c.snap.StorePath(field)
		if !ok {
			continue
		}
		projection[field] = "$" + path
	}
	return projection
}
