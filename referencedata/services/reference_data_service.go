// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/formhive/formhive/query/evaluator"
	queryModels "github.com/formhive/formhive/query/models"
	refErrors "github.com/formhive/formhive/referencedata/errors"
	"github.com/formhive/formhive/referencedata/models"
	"github.com/formhive/formhive/referencedata/repository"
)

// Service answers reference data lookups. External sources are fetched
// wholesale and filtered in memory, with the same operator semantics and
// drop policy the record store sees.
type Service struct {
	sources map[models.SourceType]repository.ItemSource
}

// NewService wires the reference data service. A nil postgres source leaves
// relational definitions unserved.
func NewService(static, postgres repository.ItemSource) *Service {
	sources := map[models.SourceType]repository.ItemSource{}
	if static != nil {
		sources[models.SourceStatic] = static
	}
	if postgres != nil {
		sources[models.SourcePostgres] = postgres
	}
	return &Service{sources: sources}
}

// Items fetches the definition's item set and applies the filter in memory.
// A nil filter returns everything.
func (s *Service) Items(ctx context.Context, ref *models.ReferenceData, filter *queryModels.FilterComposite) ([]map[string]interface{}, error) {
	source, ok := s.sources[ref.Type]
	if !ok {
		return nil, &refErrors.ReferenceDataError{
			Code:    refErrors.CodeUnknownSource,
			Message: string(ref.Type),
			Cause:   refErrors.ErrUnknownSource,
		}
	}

	items, err := source.FetchItems(ctx, ref)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return items, nil
	}
	return evaluator.Filter(items, queryModels.Node(*filter)), nil
}
