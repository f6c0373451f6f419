// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Logic joins the children of a composite filter.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// IsValid reports whether the logic connector is "and" or "or".
func (l Logic) IsValid() bool {
	return l == LogicAnd || l == LogicOr
}

// FilterLeaf is a single authored rule: one field, one operator, one value.
// Value stays untyped until the operator table coerces it against the
// resolved field type.
type FilterLeaf struct {
	Field      string      `json:"field"`
	Operator   Operator    `json:"operator"`
	Value      interface{} `json:"value,omitempty"`
	IgnoreCase bool        `json:"ignoreCase,omitempty"`
}

// FilterComposite joins child filters with and/or. The tree can be
// arbitrarily deep. An authored composite with no children is the identity
// element of its logic: and matches everything, or matches nothing.
type FilterComposite struct {
	Logic   Logic        `json:"logic"`
	Filters []FilterNode `json:"filters"`
}

// FilterNode is the union of a leaf and a composite. Exactly one of the two
// is set; the compilers treat a node with neither as dropped.
type FilterNode struct {
	Leaf      *FilterLeaf
	Composite *FilterComposite
}

// Node wraps a leaf or composite into a FilterNode.
func Node(v interface{}) FilterNode {
	switch f := v.(type) {
	case FilterLeaf:
		return FilterNode{Leaf: &f}
	case *FilterLeaf:
		return FilterNode{Leaf: f}
	case FilterComposite:
		return FilterNode{Composite: &f}
	case *FilterComposite:
		return FilterNode{Composite: f}
	}
	return FilterNode{}
}

// IsZero reports whether the node holds neither a leaf nor a composite.
func (n FilterNode) IsZero() bool {
	return n.Leaf == nil && n.Composite == nil
}

// UnmarshalJSON decodes the UI wire shape: an object carrying "logic" is a
// composite, anything else is a leaf.
func (n *FilterNode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = FilterNode{}
		return nil
	}
	var probe struct {
		Logic *Logic `json:"logic"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return err
	}
	if probe.Logic != nil {
		composite := &FilterComposite{}
		if err := json.Unmarshal(trimmed, composite); err != nil {
			return err
		}
		*n = FilterNode{Composite: composite}
		return nil
	}
	leaf := &FilterLeaf{}
	if err := json.Unmarshal(trimmed, leaf); err != nil {
		return err
	}
	*n = FilterNode{Leaf: leaf}
	return nil
}

// MarshalJSON re-emits the wire shape of whichever side is set.
func (n FilterNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.Composite != nil:
		return json.Marshal(n.Composite)
	case n.Leaf != nil:
		return json.Marshal(n.Leaf)
	}
	return nil, errors.New("filter node holds neither leaf nor composite")
}

// Expression pairs an accumulator operator with the field it applies to.
// An empty operator means "the raw field value, unmodified".
type Expression struct {
	Operator AccumulatorOp `json:"operator"`
	Field    string        `json:"field"`
}

// ComputedField declares one computed column of a group or addFields stage.
type ComputedField struct {
	Name       string     `json:"name"`
	Expression Expression `json:"expression"`
}

// GroupKey declares one grouping key. Expression may itself be an
// accumulator, enabling computed keys such as truncating a date to a month.
type GroupKey struct {
	Field      string     `json:"field"`
	Expression Expression `json:"expression"`
}

// FilterStageForm is the body of a "filter" pipeline stage.
type FilterStageForm = FilterComposite

// SortStageForm is the body of a "sort" pipeline stage.
type SortStageForm struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// GroupStageForm is the body of a "group" pipeline stage.
type GroupStageForm struct {
	GroupBy   []GroupKey      `json:"groupBy"`
	AddFields []ComputedField `json:"addFields,omitempty"`
}

// AddFieldsStageForm is the body of an "addFields" pipeline stage.
type AddFieldsStageForm []ComputedField

// UnwindStageForm is the body of an "unwind" pipeline stage.
type UnwindStageForm struct {
	Field string `json:"field"`
}
