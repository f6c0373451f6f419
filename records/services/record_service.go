// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package services orchestrates record queries: catalog snapshot, predicate
// compilation, access merging, and execution against the record store.
package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"

	formsErrors "github.com/formhive/formhive/forms/errors"
	formsRepository "github.com/formhive/formhive/forms/repository"
	formsServices "github.com/formhive/formhive/forms/services"
	dbi "github.com/formhive/formhive/internal/database/interfaces"
	"github.com/formhive/formhive/internal/pkg/log"
	"github.com/formhive/formhive/internal/types"
	permissions "github.com/formhive/formhive/permissions/services"
	"github.com/formhive/formhive/query/aggregation"
	"github.com/formhive/formhive/query/compiler"
	queryModels "github.com/formhive/formhive/query/models"
	"github.com/formhive/formhive/records/models"
	"github.com/formhive/formhive/records/repository"
)

// RecordService answers record queries for authenticated callers. Every
// query runs under the conjunction of the form scope, the caller's access
// predicate, and whatever filter the caller authored.
type RecordService struct {
	records repository.RecordRepository
	forms   formsRepository.FormRepository
	catalog *formsServices.CatalogService
	access  permissions.AccessProvider
}

// NewRecordService wires the record query orchestrator.
func NewRecordService(
	records repository.RecordRepository,
	forms formsRepository.FormRepository,
	catalog *formsServices.CatalogService,
	access permissions.AccessProvider,
) *RecordService {
	return &RecordService{
		records: records,
		forms:   forms,
		catalog: catalog,
		access:  access,
	}
}

// Find compiles the caller's filter against the form's catalog and executes
// it under the caller's access predicate. Rules that fail to compile widen
// the result set; they never fail the query.
func (s *RecordService) Find(ctx context.Context, user *types.UserContext, formID uuid.UUID, filter *queryModels.FilterComposite, opts *dbi.FindOptions) ([]models.Record, error) {
	snap, err := s.catalog.Snapshot(ctx, formID)
	if err != nil {
		return nil, err
	}

	userPredicate := bson.M{}
	if filter != nil {
		userPredicate = compiler.New(snap).CompileFilter(queryModels.Node(*filter))
	}

	scoped, err := s.scope(ctx, user, formID, userPredicate)
	if err != nil {
		return nil, err
	}
	return s.records.Find(ctx, scoped, opts)
}

// Count compiles the caller's filter and counts matching records.
func (s *RecordService) Count(ctx context.Context, user *types.UserContext, formID uuid.UUID, filter *queryModels.FilterComposite) (int64, error) {
	snap, err := s.catalog.Snapshot(ctx, formID)
	if err != nil {
		return 0, err
	}

	userPredicate := bson.M{}
	if filter != nil {
		userPredicate = compiler.New(snap).CompileFilter(queryModels.Node(*filter))
	}

	scoped, err := s.scope(ctx, user, formID, userPredicate)
	if err != nil {
		return 0, err
	}
	return s.records.Count(ctx, scoped)
}

// Search runs a free-text search over the form's searchable fields, under
// the caller's access predicate.
func (s *RecordService) Search(ctx context.Context, user *types.UserContext, formID uuid.UUID, text string, opts *dbi.FindOptions) ([]models.Record, error) {
	snap, err := s.catalog.Snapshot(ctx, formID)
	if err != nil {
		return nil, err
	}

	predicate := compiler.New(snap).BuildSearch(text)
	scoped, err := s.scope(ctx, user, formID, predicate)
	if err != nil {
		return nil, err
	}
	return s.records.Find(ctx, scoped, opts)
}

// Aggregate executes a form-owned aggregation. The merged access context is
// compiled into the pipeline's leading match stage, so authored stages only
// ever see records the caller may read. A forbidden stage operator fails the
// whole call; no partial pipeline reaches the store.
func (s *RecordService) Aggregate(ctx context.Context, user *types.UserContext, formID, aggregationID uuid.UUID) ([]models.AggregationRow, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	agg, found := form.AggregationByID(aggregationID)
	if !found {
		return nil, formsErrors.ErrAggregationNotFound
	}

	snap, err := s.catalog.Snapshot(ctx, formID)
	if err != nil {
		return nil, err
	}

	contextFilter, err := s.scope(ctx, user, formID, bson.M{})
	if err != nil {
		return nil, err
	}

	pipeline, err := aggregation.NewCompiler(snap).CompileAggregation(agg, contextFilter)
	if err != nil {
		log.WarnWithContext(ctx, "aggregation %s on form %s rejected: %v", aggregationID, formID, err)
		return nil, err
	}

	return s.records.Aggregate(ctx, pipeline)
}

// scope conjoins the form scope, the caller's access predicate, and the
// user's compiled predicate.
func (s *RecordService) scope(ctx context.Context, user *types.UserContext, formID uuid.UUID, userPredicate bson.M) (bson.M, error) {
	accessFilter, err := s.access.AccessFilter(ctx, user, formID)
	if err != nil {
		return nil, err
	}

	merged := permissions.Merge(userPredicate, accessFilter)
	return bson.M{"$and": []bson.M{
		{"form": formID},
		merged,
	}}, nil
}
