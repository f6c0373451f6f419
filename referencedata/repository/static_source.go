// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/formhive/formhive/referencedata/models"
)

// staticSource serves the items stored inline on the definition.
type staticSource struct{}

// NewStaticSource creates the inline item source.
func NewStaticSource() ItemSource {
	return &staticSource{}
}

// FetchItems returns a copy of the inline items so callers can redact or
// mutate results without touching the definition.
func (s *staticSource) FetchItems(ctx context.Context, ref *models.ReferenceData) ([]map[string]interface{}, error) {
	items := make([]map[string]interface{}, 0, len(ref.Items))
	for _, item := range ref.Items {
		copied := make(map[string]interface{}, len(item))
		for key, value := range item {
			copied[key] = value
		}
		items = append(items, copied)
	}
	return items, nil
}
