// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package services enforces record-level access. The access predicate is
// computed server-side per caller and conjoined with whatever the caller
// authored, so no user filter can widen visibility.
package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/formhive/formhive/internal/types"
)

// AccessProvider yields the access predicate for one caller on one form.
// A nil predicate means unrestricted read (admin).
type AccessProvider interface {
	AccessFilter(ctx context.Context, user *types.UserContext, formID uuid.UUID) (bson.M, error)
}

// Merge conjoins the caller's filter with the access predicate. The result
// is always the conjunction of both, even when one side is trivially
// permissive; keeping the shape uniform means a later tightening of the
// access side can never be skipped by a fast path.
func Merge(userFilter, accessFilter bson.M) bson.M {
	if userFilter == nil {
		userFilter = bson.M{}
	}
	if accessFilter == nil {
		accessFilter = bson.M{}
	}
	return bson.M{"$and": []bson.M{userFilter, accessFilter}}
}

// RedactFields strips every key of the document's data envelope that is not
// in the caller's readable set. Default fields outside the envelope are
// always visible. A nil readable set means no redaction.
func RedactFields(doc map[string]interface{}, readable []string) {
	if doc == nil || readable == nil {
		return
	}

	data, ok := doc["data"].(map[string]interface{})
	if !ok {
		return
	}

	allowed := make(map[string]bool, len(readable))
	for _, name := range readable {
		allowed[name] = true
	}

	for key := range data {
		if !allowed[key] {
			delete(data, key)
		}
	}
}
