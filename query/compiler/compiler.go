// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package compiler turns authored filter descriptors into store-native query
// predicates, resolving field paths against a catalog snapshot and applying
// per-field-type operator semantics.
//
// The compiler is permissive by design: a rule referencing a field that no
// longer exists, an operator invalid for the field's type, or a value that
// fails coercion is dropped rather than raised, because authored filters
// persist independently of schema edits and must degrade gracefully. Drops
// follow an asymmetric policy: a dropped child of an "and" is absorbed (the
// conjunction gets broader), while an "or" whose children all drop is itself
// dropped and propagates upward, so a broken rule never turns a disjunction
// into a false negative.
package compiler

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	formsServices "github.com/formhive/formhive/forms/services"
	"github.com/formhive/formhive/query/models"
)

// Compiler compiles filter descriptors against one catalog snapshot. It is a
// pure, synchronous transformation: identical inputs yield identical
// predicates, inputs are never mutated, and no I/O happens during compilation.
type Compiler struct {
	snap *formsServices.CatalogSnapshot
	flat bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// FlatPaths makes the compiler emit authored field names instead of store
// document paths. Aggregation source pipelines project their fields flat, so
// stages inside a pipeline address them without the data envelope.
func FlatPaths() Option {
	return func(c *Compiler) { c.flat = true }
}

// New creates a compiler bound to a catalog snapshot.
func New(snap *formsServices.CatalogSnapshot, opts ...Option) *Compiler {
	c := &Compiler{snap: snap}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MatchNone is a predicate no stored record can satisfy. It is the compiled
// form of an authored-empty "or" composite.
func MatchNone() bson.M {
	return bson.M{"_id": bson.M{"$exists": false}}
}

// Compile compiles a filter tree. ok=false means the whole tree dropped;
// callers treat that as "no constraint" at the top level.
func (c *Compiler) Compile(node models.FilterNode) (bson.M, bool) {
	switch {
	case node.Composite != nil:
		return c.compileComposite(node.Composite)
	case node.Leaf != nil:
		return c.CompileLeaf(*node.Leaf)
	}
	return nil, false
}

// CompileFilter compiles a filter tree, mapping a dropped tree to the
// match-everything predicate.
func (c *Compiler) CompileFilter(node models.FilterNode) bson.M {
	if node.IsZero() {
		return bson.M{}
	}
	compiled, ok := c.Compile(node)
	if !ok {
		return bson.M{}
	}
	return compiled
}

// CompileLeaf compiles a single rule. ok=false drops it: unknown operator,
// unresolvable field, type outside the filter allow-list, or failed value
// coercion all degrade the same way.
func (c *Compiler) CompileLeaf(leaf models.FilterLeaf) (bson.M, bool) {
	builder, ok := leafBuilders[leaf.Operator]
	if !ok {
		return nil, false
	}

	path, desc, ok := c.snap.StorePath(leaf.Field)
	if !ok {
		return nil, false
	}
	if c.flat {
		path = leaf.Field
	}

	if !operatorAllowed(leaf.Operator, desc.Type) {
		return nil, false
	}

	return builder(leafContext{
		path:       path,
		fieldType:  desc.Type,
		value:      leaf.Value,
		ignoreCase: leaf.IgnoreCase,
	})
}

func (c *Compiler) compileComposite(composite *models.FilterComposite) (bson.M, bool) {
	if !composite.Logic.IsValid() {
		return nil, false
	}

	// An authored-empty composite is the identity element of its logic.
	if len(composite.Filters) == 0 {
		if composite.Logic == models.LogicAnd {
			return bson.M{}, true
		}
		return MatchNone(), true
	}

	compiled := make([]bson.M, 0, len(composite.Filters))
	for _, child := range composite.Filters {
		if predicate, ok := c.Compile(child); ok {
			compiled = append(compiled, predicate)
		}
	}

	if composite.Logic == models.LogicAnd {
		switch len(compiled) {
		case 0:
			// Every child dropped: the conjunction carries no constraint.
			return bson.M{}, true
		case 1:
			return compiled[0], true
		default:
			return bson.M{"$and": compiled}, true
		}
	}

	switch len(compiled) {
	case 0:
		// Every child dropped: the disjunction itself drops and propagates.
		return nil, false
	case 1:
		return compiled[0], true
	default:
		return bson.M{"$or": compiled}, true
	}
}

// BuildSearch compiles a free-text search into a disjunction of
// case-insensitive substring matches over the searchable fields.
func (c *Compiler) BuildSearch(search string) bson.M {
	if search == "" {
		return bson.M{}
	}

	pattern := regexp.QuoteMeta(search)
	paths := c.snap.SearchableStorePaths()
	clauses := make([]bson.M, 0, len(paths))
	for _, path := range paths {
		clauses = append(clauses, bson.M{path: bson.M{"$regex": pattern, "$options": "i"}})
	}

	if len(clauses) == 0 {
		return bson.M{}
	}
	return bson.M{"$or": clauses}
}
