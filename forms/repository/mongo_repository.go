// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"
	"fmt"

	uuid "github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"

	formsErrors "github.com/formhive/formhive/forms/errors"
	"github.com/formhive/formhive/forms/models"
	dbi "github.com/formhive/formhive/internal/database/interfaces"
)

const formCollection = "forms"

// mongoFormRepository implements FormRepository on the document store
type mongoFormRepository struct {
	db dbi.Repository
}

// NewMongoFormRepository creates a form repository backed by the document store
func NewMongoFormRepository(db dbi.Repository) FormRepository {
	return &mongoFormRepository{db: db}
}

// FindByID retrieves a form by its ID
func (r *mongoFormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Form, error) {
	result := <-r.db.FindOne(ctx, formCollection, bson.M{"_id": id})

	if result.NoResult() {
		return nil, formsErrors.ErrFormNotFound
	}
	if err := result.Error(); err != nil {
		if errors.Is(err, dbi.ErrNoDocuments) {
			return nil, formsErrors.ErrFormNotFound
		}
		return nil, formsErrors.WrapDatabaseError(err)
	}

	var form models.Form
	if err := result.Decode(&form); err != nil {
		return nil, fmt.Errorf("failed to decode form %s: %w", id, err)
	}
	return &form, nil
}

// FindFields retrieves only the field catalog of a form
func (r *mongoFormRepository) FindFields(ctx context.Context, id uuid.UUID) ([]models.FieldDescriptor, error) {
	form, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return form.Fields, nil
}

// Save inserts or replaces a form
func (r *mongoFormRepository) Save(ctx context.Context, form *models.Form) error {
	result := <-r.db.Update(ctx, formCollection,
		bson.M{"_id": form.ObjectId},
		bson.M{"$set": form})
	if result.Error != nil {
		return formsErrors.WrapDatabaseError(result.Error)
	}
	return nil
}
