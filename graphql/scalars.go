package graphql

import (
	"encoding"
	"encoding/json"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/adminradio/perspective/types"
)

var timestamp = newStringScalar(
	"Timestamp", "The `Timestamp` scalar type represents a DateTime."+
		" The Timestamp is serialized as an RFC 3339 quoted string",
	serializeTimestamp, deserializeTimestamp)

var filters = newStringScalar(
	"Filters", "The `Filters` scalar type carries a filter list as its JSON"+
		" text, a list of [column, op, term] tuples.",
	serializeFilters, deserializeFilters)

// newStringScalar creates a string-based scalar with custom serialization
// functions.
func newStringScalar(
	name string, description string, serializeFn graphql.SerializeFn, deserializeFn graphql.ParseValueFn,
) *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:         name,
		Description:  description,
		Serialize:    serializeFn,
		ParseValue:   deserializeFn,
		ParseLiteral: parseLiteralFromStringHandler(deserializeFn),
	})
}

func parseLiteralFromStringHandler(parser graphql.ParseValueFn) graphql.ParseLiteralFn {
	return func(valueAST ast.Value) interface{} {
		switch valueAST := valueAST.(type) {
		case *ast.StringValue:
			return parser(valueAST.Value)
		}
		return nil
	}
}

func serializeFilters(value interface{}) interface{} {
	switch value := value.(type) {
	case []types.Filter:
		if value == nil {
			return nil
		}
		buff, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		return string(buff)
	default:
		return value
	}
}

func deserializeFilters(value interface{}) interface{} {
	switch value := value.(type) {
	case []byte:
		var result []types.Filter
		if err := json.Unmarshal(value, &result); err != nil {
			return nil
		}
		return result
	case string:
		return deserializeFilters([]byte(value))
	case *string:
		if value == nil {
			return nil
		}
		return deserializeFilters([]byte(*value))
	default:
		return nil
	}
}

func serializeTimestamp(value interface{}) interface{} {
	switch value := value.(type) {
	case *time.Time:
		return marshalText(value)
	case time.Time:
		return marshalText(&value)
	default:
		return value
	}
}

func deserializeTimestamp(value interface{}) interface{} {
	switch value := value.(type) {
	case []byte:
		t := &time.Time{}
		if err := t.UnmarshalText(value); err != nil {
			return nil
		}
		return t
	case string:
		return deserializeTimestamp([]byte(value))
	case *string:
		if value == nil {
			return nil
		}
		return deserializeTimestamp([]byte(*value))
	default:
		return value
	}
}

func marshalText(value encoding.TextMarshaler) *string {
	buff, err := value.MarshalText()
	if err != nil {
		return nil
	}

	var s = string(buff)
	return &s
}
