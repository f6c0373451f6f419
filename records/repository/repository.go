// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	dbi "github.com/formhive/formhive/internal/database/interfaces"
	"github.com/formhive/formhive/records/models"
)

// RecordRepository defines data access for form records. Filters and
// pipelines arrive pre-compiled; the repository executes them as-is.
type RecordRepository interface {
	Find(ctx context.Context, filter bson.M, opts *dbi.FindOptions) ([]models.Record, error)
	FindOne(ctx context.Context, filter bson.M) (*models.Record, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, pipeline []bson.M) ([]models.AggregationRow, error)
	Save(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, filter bson.M) error
}
