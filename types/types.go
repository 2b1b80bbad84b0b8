// types package contains the public API types
// that are shared between both REST and GraphQL
package types

import "net/http"

// ColumnType is the declared data type of a dataset column. It drives the set
// of legal filter operators and the parsing rules for raw input. Column types
// come from the table metadata, they are never inferred from values.
type ColumnType string

const (
	ColumnString   ColumnType = "string"
	ColumnInteger  ColumnType = "integer"
	ColumnFloat    ColumnType = "float"
	ColumnBoolean  ColumnType = "boolean"
	ColumnDate     ColumnType = "date"
	ColumnDatetime ColumnType = "datetime"
)

// ColumnTypes lists every supported column type.
var ColumnTypes = []ColumnType{
	ColumnString,
	ColumnInteger,
	ColumnFloat,
	ColumnBoolean,
	ColumnDate,
	ColumnDatetime,
}

// FilterOp is a filter comparison operator. The string value is the display
// form used in operator pickers and in the serialized view configuration.
type FilterOp string

const (
	OpEq         FilterOp = "=="
	OpNe         FilterOp = "!="
	OpGt         FilterOp = ">"
	OpGte        FilterOp = ">="
	OpLt         FilterOp = "<"
	OpLte        FilterOp = "<="
	OpBeginsWith FilterOp = "begins with"
	OpContains   FilterOp = "contains"
	OpEndsWith   FilterOp = "ends with"
	OpIn         FilterOp = "in"
	OpIsNotNull  FilterOp = "is not null"
	OpIsNull     FilterOp = "is null"
)

// CqlOperators contains the CQL operator for a given filter operator. The
// substring operators translate to LIKE patterns and are handled separately.
var CqlOperators = map[FilterOp]string{
	OpEq:  "=",
	OpNe:  "!=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
	OpIn:  "IN",
}

// ScalarKind discriminates the Scalar union.
type ScalarKind int

const (
	KindNull ScalarKind = iota
	KindString
	KindFloat
	KindDateTime
)

// Scalar is a single typed filter value. Exactly one of the payload fields is
// meaningful, selected by Kind. Integer columns are represented as Float
// scalars with no fractional part. DateTime carries milliseconds since the
// Unix epoch, UTC.
type Scalar struct {
	Kind   ScalarKind
	Text   string
	Number float64
	Millis int64
}

func NullScalar() Scalar {
	return Scalar{Kind: KindNull}
}

func StringScalar(text string) Scalar {
	return Scalar{Kind: KindString, Text: text}
}

func FloatScalar(number float64) Scalar {
	return Scalar{Kind: KindFloat, Number: number}
}

func DateTimeScalar(millis int64) Scalar {
	return Scalar{Kind: KindDateTime, Millis: millis}
}

// FilterTerm is the value side of a filter condition: either a single Scalar
// or an ordered array of Scalars. The array form is used exclusively by the
// "in" operator; order matches the user's comma separated entry and
// duplicates are allowed.
type FilterTerm struct {
	Scalar Scalar
	Values []Scalar
	Array  bool
}

func ScalarTerm(s Scalar) FilterTerm {
	return FilterTerm{Scalar: s}
}

func ArrayTerm(values []Scalar) FilterTerm {
	return FilterTerm{Values: values, Array: true}
}

// Filter is one (column, operator, term) condition. A slice of Filters in the
// view configuration represents the conjunction of all conditions.
type Filter struct {
	Column string
	Op     FilterOp
	Term   FilterTerm
}

// ViewConfig is the externally owned view configuration. Only the filter list
// is in scope here; the owner holds sort, aggregates and the rest.
type ViewConfig struct {
	Filter []Filter `json:"filter"`
}

// ViewConfigUpdate is an immutable patch for the view configuration. A nil
// Filter slice means the filter list is unset by this patch; a non-nil slice
// is a full replacement of the list.
type ViewConfigUpdate struct {
	Filter []Filter `json:"filter,omitempty"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
