// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/formhive/formhive/internal/database/postgres"
	refErrors "github.com/formhive/formhive/referencedata/errors"
	"github.com/formhive/formhive/referencedata/models"
)

// Table names come from admin-authored definitions, not end users, but they
// are still interpolated into SQL and get validated against this shape.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// postgresSource fetches reference items from a relational table. The whole
// table is read; compiled predicates never reach this source.
type postgresSource struct {
	client *postgres.Client
}

// NewPostgresSource creates a relational item source.
func NewPostgresSource(client *postgres.Client) ItemSource {
	return &postgresSource{client: client}
}

// FetchItems reads every row of the definition's table into generic maps.
func (s *postgresSource) FetchItems(ctx context.Context, ref *models.ReferenceData) ([]map[string]interface{}, error) {
	if !tableNamePattern.MatchString(ref.Table) {
		return nil, &refErrors.ReferenceDataError{
			Code:    refErrors.CodeInvalidTable,
			Message: fmt.Sprintf("table name %q is not allowed", ref.Table),
			Cause:   refErrors.ErrInvalidTable,
		}
	}

	query := fmt.Sprintf("SELECT * FROM %s", ref.Table)
	rows, err := s.client.DB().QueryxContext(ctx, query)
	if err != nil {
		return nil, refErrors.WrapFetchError(err)
	}
	defer rows.Close()

	var items []map[string]interface{}
	for rows.Next() {
		item := map[string]interface{}{}
		if err := rows.MapScan(item); err != nil {
			return nil, refErrors.WrapFetchError(err)
		}
		items = append(items, normalizeRow(item))
	}
	if err := rows.Err(); err != nil {
		return nil, refErrors.WrapFetchError(err)
	}
	return items, nil
}

// normalizeRow converts driver byte slices to strings so the in-memory
// evaluator sees the same value shapes as JSON-decoded items.
func normalizeRow(row map[string]interface{}) map[string]interface{} {
	for key, value := range row {
		if raw, ok := value.([]byte); ok {
			row[key] = string(raw)
		}
	}
	return row
}
