// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/formhive/formhive/referencedata/models"
)

// ItemSource fetches the full item set of one reference data definition.
// Sources are fetched wholesale; filtering happens in the service layer.
type ItemSource interface {
	FetchItems(ctx context.Context, ref *models.ReferenceData) ([]map[string]interface{}, error)
}
