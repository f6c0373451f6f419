// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/formhive/formhive/internal/types"
)

// OwnershipProvider grants admins everything and restricts other callers to
// records they created plus records explicitly shared with them.
type OwnershipProvider struct{}

// NewOwnershipProvider creates the default access provider.
func NewOwnershipProvider() *OwnershipProvider {
	return &OwnershipProvider{}
}

// AccessFilter implements AccessProvider.
func (p *OwnershipProvider) AccessFilter(ctx context.Context, user *types.UserContext, formID uuid.UUID) (bson.M, error) {
	if user.IsAdmin() {
		return bson.M{}, nil
	}

	clauses := []bson.M{
		{"createdBy": user.UserID.String()},
	}
	// Record ids are stored as UUIDs; the candidates must carry the same
	// type or the clause can never select a document.
	if shared := parseRecordIDs(user.ReadableIDs); len(shared) > 0 {
		clauses = append(clauses, bson.M{"_id": bson.M{"$in": shared}})
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return bson.M{"$or": clauses}, nil
}

// parseRecordIDs converts shared record ids into typed UUIDs, skipping
// malformed entries.
func parseRecordIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.FromString(value)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
