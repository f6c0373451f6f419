// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/formhive/formhive/forms/models"
)

// FormRepository defines the interface for form catalog lookups.
// This is the `resolveFields` collaborator boundary: everything the query
// compilers know about a form's schema flows through here.
type FormRepository interface {
	// FindByID retrieves a form by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Form, error)

	// FindFields retrieves only the field catalog of a form
	FindFields(ctx context.Context, id uuid.UUID) ([]models.FieldDescriptor, error)

	// Save inserts or replaces a form
	Save(ctx context.Context, form *models.Form) error
}
