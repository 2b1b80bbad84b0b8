// Package filter implements the type-directed filter condition model: which
// comparison operators a column type admits, parsing of raw editable text
// into typed filter terms and formatting terms back into editable text.
package filter

import (
	"github.com/adminradio/perspective/types"
)

// stringOperators is the operator superset for string columns, including the
// substring and set membership operators. Slice order defines the display
// order in operator pickers.
var stringOperators = []types.FilterOp{
	types.OpEq,
	types.OpNe,
	types.OpGt,
	types.OpGte,
	types.OpLt,
	types.OpLte,
	types.OpBeginsWith,
	types.OpContains,
	types.OpEndsWith,
	types.OpIn,
	types.OpIsNotNull,
	types.OpIsNull,
}

// comparisonOperators is the operator set for every non-string column type.
var comparisonOperators = []types.FilterOp{
	types.OpEq,
	types.OpNe,
	types.OpGt,
	types.OpGte,
	types.OpLt,
	types.OpLte,
	types.OpIsNotNull,
	types.OpIsNull,
}

// OperatorsForType returns the legal operators for a column type, in display
// order. The returned slice is a copy, callers may reorder it.
func OperatorsForType(columnType types.ColumnType) []types.FilterOp {
	var ops []types.FilterOp
	if columnType == types.ColumnString {
		ops = stringOperators
	} else {
		ops = comparisonOperators
	}
	result := make([]types.FilterOp, len(ops))
	copy(result, ops)
	return result
}

// IsSuggestable reports whether a value suggestion lookup is meaningful for
// the given operator and column type. Equality on a string column is the only
// combination with a finite, lookup-able target set.
func IsSuggestable(op types.FilterOp, columnType types.ColumnType) bool {
	return op == types.OpEq && columnType == types.ColumnString
}
