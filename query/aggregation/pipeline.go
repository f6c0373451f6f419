// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package aggregation compiles authored multi-stage aggregations into
// store-native pipelines. Stage bodies are scanned for forbidden operators
// before anything is compiled; a single hit rejects the whole aggregation,
// never a partial pipeline.
package aggregation

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	formsModels "github.com/formhive/formhive/forms/models"
	formsServices "github.com/formhive/formhive/forms/services"
	"github.com/formhive/formhive/query/compiler"
	queryErrors "github.com/formhive/formhive/query/errors"
	"github.com/formhive/formhive/query/models"
)

// Compiler compiles aggregation pipelines against one catalog snapshot.
// Like the predicate compiler it is pure and never mutates its inputs.
type Compiler struct {
	snap   *formsServices.CatalogSnapshot
	filter *compiler.Compiler
}

// NewCompiler creates a pipeline compiler bound to a catalog snapshot.
func NewCompiler(snap *formsServices.CatalogSnapshot) *Compiler {
	return &Compiler{
		snap: snap,
		// Stages run after the source projection flattened the fields, so
		// filter stages address them without the data envelope.
		filter: compiler.New(snap, compiler.FlatPaths()),
	}
}

// CompilePipeline compiles the authored stages in order. Every stage body is
// security-scanned first; compilation only starts once the whole pipeline is
// clean, so a rejection can never leak a partially-built pipeline.
func (c *Compiler) CompilePipeline(stages []formsModels.PipelineStage) ([]bson.M, error) {
	for _, stage := range stages {
		if err := scanStage(stage); err != nil {
			return nil, err
		}
	}

	pipeline := make([]bson.M, 0, len(stages))
	for _, stage := range stages {
		compiled, ok, err := c.compileStage(stage)
		if err != nil {
			return nil, err
		}
		if ok {
			pipeline = append(pipeline, compiled)
		}
	}
	return pipeline, nil
}

// scanStage decodes the raw stage body and walks it for forbidden operators.
func scanStage(stage formsModels.PipelineStage) error {
	if len(stage.Form) == 0 {
		return nil
	}
	var body interface{}
	if err := json.Unmarshal(stage.Form, &body); err != nil {
		return queryErrors.NewInvalidStageError(string(stage.Type), err)
	}
	if op, found := findForbidden(body); found {
		return queryErrors.NewForbiddenOperatorError(op)
	}
	return nil
}

// compileStage compiles one stage. ok=false drops the stage (e.g. a sort on
// a field that no longer exists), mirroring the filter drop policy.
func (c *Compiler) compileStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	switch stage.Type {
	case formsModels.StageFilter:
		return c.compileFilterStage(stage)
	case formsModels.StageSort:
		return c.compileSortStage(stage)
	case formsModels.StageGroup:
		return c.compileGroupStage(stage)
	case formsModels.StageAddFields:
		return c.compileAddFieldsStage(stage)
	case formsModels.StageUnwind:
		return c.compileUnwindStage(stage)
	case formsModels.StageCustom:
		return c.compileCustomStage(stage)
	}
	return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), queryErrors.ErrInvalidStage)
}

func (c *Compiler) compileFilterStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	var form models.FilterStageForm
	if err := json.Unmarshal(stage.Form, &form); err != nil {
		return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), err)
	}

	predicate := c.filter.CompileFilter(models.Node(form))
	return bson.M{"$match": predicate}, true, nil
}

func (c *Compiler) compileSortStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	var form models.SortStageForm
	if err := json.Unmarshal(stage.Form, &form); err != nil {
		return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), err)
	}
	if form.Field == "" {
		return nil, false, nil
	}

	order := 1
	if strings.EqualFold(form.Order, "desc") {
		order = -1
	}
	return bson.M{"$sort": bson.M{form.Field: order}}, true, nil
}

func (c *Compiler) compileGroupStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	var form models.GroupStageForm
	if err := json.Unmarshal(stage.Form, &form); err != nil {
		return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), err)
	}

	groupID := bson.M{}
	for _, key := range form.GroupBy {
		name, expr, ok := compileGroupKey(key)
		if !ok {
			continue
		}
		groupID[name] = expr
	}

	group := bson.M{}
	if len(groupID) > 0 {
		group["_id"] = groupID
	} else {
		// No usable key: collapse everything into a single group.
		group["_id"] = nil
	}

	for _, computed := range form.AddFields {
		expr, ok := compileComputedField(computed)
		if !ok {
			continue
		}
		group[computed.Name] = expr
	}

	return bson.M{"$group": group}, true, nil
}

// compileGroupKey compiles one grouping key. An empty expression operator
// groups by the raw field value unmodified; anything else is an accumulator
// expression, enabling computed keys such as truncating a date to a month.
func compileGroupKey(key models.GroupKey) (string, interface{}, bool) {
	field := key.Expression.Field
	if field == "" {
		field = key.Field
	}
	if field == "" {
		return "", nil, false
	}

	name := strings.ReplaceAll(key.Field, ".", "_")
	if name == "" {
		name = strings.ReplaceAll(field, ".", "_")
	}

	if key.Expression.Operator == "" {
		return name, "$" + field, true
	}

	expr, ok := accumulatorExpr(key.Expression.Operator, field)
	if !ok {
		return "", nil, false
	}
	return name, expr, true
}

// compileComputedField compiles one computed column through the accumulator
// table.
func compileComputedField(computed models.ComputedField) (interface{}, bool) {
	if computed.Name == "" {
		return nil, false
	}
	return accumulatorExpr(computed.Expression.Operator, computed.Expression.Field)
}

func (c *Compiler) compileAddFieldsStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	var form models.AddFieldsStageForm
	if err := json.Unmarshal(stage.Form, &form); err != nil {
		return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), err)
	}

	fields := bson.M{}
	for _, computed := range form {
		expr, ok := compileComputedField(computed)
		if !ok {
			continue
		}
		fields[computed.Name] = expr
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	return bson.M{"$addFields": fields}, true, nil
}

func (c *Compiler) compileUnwindStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	var form models.UnwindStageForm
	if err := json.Unmarshal(stage.Form, &form); err != nil {
		return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), err)
	}
	if form.Field == "" {
		return nil, false, nil
	}
	return bson.M{"$unwind": "$" + form.Field}, true, nil
}

func (c *Compiler) compileCustomStage(stage formsModels.PipelineStage) (bson.M, bool, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(stage.Form, &body); err != nil {
		return nil, false, queryErrors.NewInvalidStageError(string(stage.Type), err)
	}
	if len(body) == 0 {
		return nil, false, nil
	}
	return bson.M(body), true, nil
}
