// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	dbi "github.com/formhive/formhive/internal/database/interfaces"
	recordsErrors "github.com/formhive/formhive/records/errors"
	"github.com/formhive/formhive/records/models"
)

const recordCollection = "records"

// mongoRecordRepository implements RecordRepository on the document store
type mongoRecordRepository struct {
	db dbi.Repository
}

// NewMongoRecordRepository creates a record repository backed by the document store
func NewMongoRecordRepository(db dbi.Repository) RecordRepository {
	return &mongoRecordRepository{db: db}
}

// Find executes a compiled filter and drains the cursor
func (r *mongoRecordRepository) Find(ctx context.Context, filter bson.M, opts *dbi.FindOptions) ([]models.Record, error) {
	cursor := <-r.db.Find(ctx, recordCollection, filter, opts)
	if err := cursor.Error(); err != nil {
		return nil, recordsErrors.WrapDatabaseError(err)
	}
	defer cursor.Close()

	var records []models.Record
	for cursor.Next() {
		var record models.Record
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, record)
	}
	if err := cursor.Error(); err != nil {
		return nil, recordsErrors.WrapDatabaseError(err)
	}
	return records, nil
}

// FindOne retrieves a single record matching a compiled filter
func (r *mongoRecordRepository) FindOne(ctx context.Context, filter bson.M) (*models.Record, error) {
	result := <-r.db.FindOne(ctx, recordCollection, filter)

	if result.NoResult() {
		return nil, recordsErrors.ErrRecordNotFound
	}
	if err := result.Error(); err != nil {
		if errors.Is(err, dbi.ErrNoDocuments) {
			return nil, recordsErrors.ErrRecordNotFound
		}
		return nil, recordsErrors.WrapDatabaseError(err)
	}

	var record models.Record
	if err := result.Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &record, nil
}

// Count counts records matching a compiled filter
func (r *mongoRecordRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	result := <-r.db.Count(ctx, recordCollection, filter)
	if result.Error != nil {
		return 0, recordsErrors.WrapDatabaseError(result.Error)
	}
	return result.Count, nil
}

// Aggregate executes a compiled pipeline and drains the cursor
func (r *mongoRecordRepository) Aggregate(ctx context.Context, pipeline []bson.M) ([]models.AggregationRow, error) {
	cursor := <-r.db.Aggregate(ctx, recordCollection, pipeline)
	if err := cursor.Error(); err != nil {
		return nil, recordsErrors.WrapDatabaseError(err)
	}
	defer cursor.Close()

	var rows []models.AggregationRow
	for cursor.Next() {
		row := models.AggregationRow{}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode aggregation row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := cursor.Error(); err != nil {
		return nil, recordsErrors.WrapDatabaseError(err)
	}
	return rows, nil
}

// Save inserts or replaces a record
func (r *mongoRecordRepository) Save(ctx context.Context, record *models.Record) error {
	result := <-r.db.Update(ctx, recordCollection,
		bson.M{"_id": record.ObjectId},
		bson.M{"$set": record})
	if result.Error != nil {
		return recordsErrors.WrapDatabaseError(result.Error)
	}
	return nil
}

// Delete removes records matching a compiled filter
func (r *mongoRecordRepository) Delete(ctx context.Context, filter bson.M) error {
	result := <-r.db.Delete(ctx, recordCollection, filter)
	if result.Error != nil {
		return recordsErrors.WrapDatabaseError(result.Error)
	}
	return nil
}
