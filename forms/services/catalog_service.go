// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"sync"

	uuid "github.com/gofrs/uuid"

	"github.com/formhive/formhive/forms/models"
	"github.com/formhive/formhive/forms/repository"
	"github.com/formhive/formhive/internal/cache"
	"github.com/formhive/formhive/internal/pkg/log"
)

const defaultResolveDepth = 3

const cacheEntityFormFields = "form-fields"

// CatalogService materializes form field catalogs into snapshots the query
// compilers resolve against. Referenced-form catalogs are prefetched up to
// the resolve depth so that compilation itself never does I/O.
type CatalogService struct {
	repo         repository.FormRepository
	cacheService *cache.Service
	resolveDepth int
}

// NewCatalogService creates a catalog service. cacheService may be nil.
func NewCatalogService(repo repository.FormRepository, cacheService *cache.Service, resolveDepth int) *CatalogService {
	if resolveDepth < 1 {
		resolveDepth = defaultResolveDepth
	}
	return &CatalogService{
		repo:         repo,
		cacheService: cacheService,
		resolveDepth: resolveDepth,
	}
}

// Fields loads a form's declared field catalog, via the cache when possible.
func (s *CatalogService) Fields(ctx context.Context, formID uuid.UUID) ([]models.FieldDescriptor, error) {
	var key string
	if s.cacheService.Enabled() {
		key = s.cacheService.GenerateKey(cacheEntityFormFields, formID.String())
		var cached []models.FieldDescriptor
		if s.cacheService.GetModel(ctx, key, &cached) {
			return cached, nil
		}
	}

	fields, err := s.repo.FindFields(ctx, formID)
	if err != nil {
		return nil, err
	}

	if key != "" {
		s.cacheService.SetModel(ctx, key, fields)
	}
	return fields, nil
}

// InvalidateFields drops the cached catalog of a form. Called on form save so
// stale schemas never outlive an edit.
func (s *CatalogService) InvalidateFields(ctx context.Context, formID uuid.UUID) {
	if s.cacheService.Enabled() {
		s.cacheService.Invalidate(ctx, s.cacheService.GenerateKey(cacheEntityFormFields, formID.String()))
	}
}

// Snapshot loads the form's catalog and prefetches every referenced-form
// catalog reachable within the resolve depth. Hops within one level are
// independent and fetched concurrently; the snapshot content does not depend
// on completion order. A referenced form that fails to load is simply absent
// from the snapshot, which makes paths through it unresolvable (drop policy).
func (s *CatalogService) Snapshot(ctx context.Context, formID uuid.UUID) (*CatalogSnapshot, error) {
	fields, err := s.Fields(ctx, formID)
	if err != nil {
		return nil, err
	}

	snap := &CatalogSnapshot{
		FormID:       formID,
		Fields:       fields,
		Referenced:   map[uuid.UUID][]models.FieldDescriptor{},
		ResolveDepth: s.resolveDepth,
	}
	// Self-references resolve against the form's own catalog; the depth cap
	// keeps cyclic schemas bounded.
	snap.Referenced[formID] = fields

	frontier := referencedFormIDs(fields)
	for depth := 0; depth < s.resolveDepth && len(frontier) > 0; depth++ {
		fetched := s.fetchLevel(ctx, snap, frontier)

		var next []uuid.UUID
		for _, id := range fetched {
			next = append(next, referencedFormIDs(snap.Referenced[id])...)
		}
		frontier = next
	}

	return snap, nil
}

// fetchLevel loads one level of referenced catalogs concurrently and returns
// the ids that were newly fetched.
func (s *CatalogService) fetchLevel(ctx context.Context, snap *CatalogSnapshot, ids []uuid.UUID) []uuid.UUID {
	pending := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, done := snap.Referenced[id]; done || seen[id] {
			continue
		}
		seen[id] = true
		pending = append(pending, id)
	}
	if len(pending) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		fetched []uuid.UUID
	)
	for _, id := range pending {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			fields, err := s.Fields(ctx, id)
			if err != nil {
				log.Warn("catalog snapshot: referenced form %s unavailable: %v", id, err)
				return
			}
			mu.Lock()
			snap.Referenced[id] = fields
			fetched = append(fetched, id)
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return fetched
}

// referencedFormIDs collects the referenced form ids of resource fields.
func referencedFormIDs(fields []models.FieldDescriptor) []uuid.UUID {
	var ids []uuid.UUID
	for _, field := range fields {
		if field.Type.IsResource() && field.ReferencedForm != uuid.Nil {
			ids = append(ids, field.ReferencedForm)
		}
	}
	return ids
}
