// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Operator is the closed set of filter leaf operators the authoring UI can
// produce. Anything outside this set is dropped by the compilers, never
// passed through to the store.
type Operator string

const (
	OpEq             Operator = "eq"
	OpNeq            Operator = "neq"
	OpGt             Operator = "gt"
	OpGte            Operator = "gte"
	OpLt             Operator = "lt"
	OpLte            Operator = "lte"
	OpContains       Operator = "contains"
	OpDoesNotContain Operator = "doesnotcontain"
	OpStartsWith     Operator = "startswith"
	OpEndsWith       Operator = "endswith"
	OpIsNull         Operator = "isnull"
	OpIsNotNull      Operator = "isnotnull"
	OpIsEmpty        Operator = "isempty"
	OpIsNotEmpty     Operator = "isnotempty"
)

// Operators lists every valid operator, in a stable order.
func Operators() []Operator {
	return []Operator{
		OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte,
		OpContains, OpDoesNotContain, OpStartsWith, OpEndsWith,
		OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty,
	}
}

// IsValid reports whether the operator belongs to the closed set.
func (op Operator) IsValid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte,
		OpContains, OpDoesNotContain, OpStartsWith, OpEndsWith,
		OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty:
		return true
	}
	return false
}

// IsOrdered reports whether the operator compares by order rather than identity.
func (op Operator) IsOrdered() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// IsUnary reports whether the operator ignores the authored value entirely.
func (op Operator) IsUnary() bool {
	switch op {
	case OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty:
		return true
	}
	return false
}

// AccumulatorOp is the closed set of accumulator / default operators usable in
// group keys, grouped columns and addFields computed columns.
type AccumulatorOp string

const (
	AccSum      AccumulatorOp = "sum"
	AccAvg      AccumulatorOp = "avg"
	AccMax      AccumulatorOp = "max"
	AccMin      AccumulatorOp = "min"
	AccFirst    AccumulatorOp = "first"
	AccLast     AccumulatorOp = "last"
	AccCount    AccumulatorOp = "count"
	AccYear     AccumulatorOp = "year"
	AccMonth    AccumulatorOp = "month"
	AccWeek     AccumulatorOp = "week"
	AccDay      AccumulatorOp = "day"
	AccAdd      AccumulatorOp = "add"
	AccMultiply AccumulatorOp = "multiply"
)

// IsValid reports whether the accumulator operator belongs to the closed set.
func (op AccumulatorOp) IsValid() bool {
	switch op {
	case AccSum, AccAvg, AccMax, AccMin, AccFirst, AccLast, AccCount,
		AccYear, AccMonth, AccWeek, AccDay, AccAdd, AccMultiply:
		return true
	}
	return false
}
