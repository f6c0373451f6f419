// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterNodeDecodesComposite(t *testing.T) {
	raw := `{
		"logic": "and",
		"filters": [
			{"field": "name", "operator": "eq", "value": "Ada"},
			{
				"logic": "or",
				"filters": [
					{"field": "age", "operator": "gte", "value": 18},
					{"field": "tags", "operator": "contains", "value": ["vip"]}
				]
			}
		]
	}`

	var node FilterNode
	require.NoError(t, json.Unmarshal([]byte(raw), &node))

	require.NotNil(t, node.Composite)
	assert.Equal(t, LogicAnd, node.Composite.Logic)
	require.Len(t, node.Composite.Filters, 2)

	first := node.Composite.Filters[0]
	require.NotNil(t, first.Leaf)
	assert.Equal(t, "name", first.Leaf.Field)
	assert.Equal(t, OpEq, first.Leaf.Operator)
	assert.Equal(t, "Ada", first.Leaf.Value)

	second := node.Composite.Filters[1]
	require.NotNil(t, second.Composite)
	assert.Equal(t, LogicOr, second.Composite.Logic)
	require.Len(t, second.Composite.Filters, 2)
	assert.Equal(t, []interface{}{"vip"}, second.Composite.Filters[1].Leaf.Value)
}

func TestFilterNodeDecodesBareLeaf(t *testing.T) {
	var node FilterNode
	require.NoError(t, json.Unmarshal([]byte(`{"field": "name", "operator": "eq", "value": "x", "ignoreCase": true}`), &node))

	require.NotNil(t, node.Leaf)
	assert.Nil(t, node.Composite)
	assert.True(t, node.Leaf.IgnoreCase)
}

func TestFilterNodeDecodesNull(t *testing.T) {
	var node FilterNode
	require.NoError(t, json.Unmarshal([]byte(`null`), &node))
	assert.True(t, node.IsZero())
}

func TestFilterNodeRoundTrip(t *testing.T) {
	original := Node(FilterComposite{
		Logic: LogicOr,
		Filters: []FilterNode{
			Node(FilterLeaf{Field: "a", Operator: OpEq, Value: "1"}),
			Node(FilterLeaf{Field: "b", Operator: OpIsNull}),
		},
	})

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded FilterNode
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}

func TestOperatorEnum(t *testing.T) {
	for _, op := range Operators() {
		assert.True(t, op.IsValid(), string(op))
	}
	assert.False(t, Operator("between").IsValid())
	assert.False(t, Operator("").IsValid())

	assert.True(t, OpGt.IsOrdered())
	assert.False(t, OpEq.IsOrdered())
	assert.True(t, OpIsNull.IsUnary())
	assert.True(t, OpIsNotEmpty.IsUnary())
	assert.False(t, OpContains.IsUnary())
}

func TestLogicEnum(t *testing.T) {
	assert.True(t, LogicAnd.IsValid())
	assert.True(t, LogicOr.IsValid())
	assert.False(t, Logic("xor").IsValid())
}
