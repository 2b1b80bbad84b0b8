package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// Display returns the canonical editable text form of a scalar. Null renders
// as an empty string, never as the literal word "null" (that form is internal
// to the JSON encoding only).
func (s Scalar) Display() string {
	switch s.Kind {
	case KindString:
		return s.Text
	case KindFloat:
		return strconv.FormatFloat(s.Number, 'f', -1, 64)
	case KindDateTime:
		return strconv.FormatInt(s.Millis, 10)
	default:
		return ""
	}
}

// Display returns the text form of a term. Array terms render as the comma
// separated display of their elements, matching the raw entry of the "in"
// editor.
func (t FilterTerm) Display() string {
	if !t.Array {
		return t.Scalar.Display()
	}
	out := ""
	for i, s := range t.Values {
		if i > 0 {
			out += ","
		}
		out += s.Display()
	}
	return out
}

// MarshalJSON encodes a scalar as its natural JSON value: string, number or
// null. DateTime scalars encode as their millisecond count.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindString:
		return json.Marshal(s.Text)
	case KindFloat:
		return json.Marshal(s.Number)
	case KindDateTime:
		return json.Marshal(s.Millis)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON value into a scalar. Numbers always decode as
// Float; NormalizeTerm re-types them for date and datetime columns once the
// column type is known.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch value := value.(type) {
	case nil:
		*s = NullScalar()
	case string:
		*s = StringScalar(value)
	case float64:
		*s = FloatScalar(value)
	case bool:
		*s = StringScalar(strconv.FormatBool(value))
	default:
		return fmt.Errorf("unsupported scalar value: %v", value)
	}
	return nil
}

func (t FilterTerm) MarshalJSON() ([]byte, error) {
	if t.Array {
		values := t.Values
		if values == nil {
			values = []Scalar{}
		}
		return json.Marshal(values)
	}
	return json.Marshal(t.Scalar)
}

func (t *FilterTerm) UnmarshalJSON(data []byte) error {
	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		var values []Scalar
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*t = ArrayTerm(values)
		return nil
	}
	var s Scalar
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ScalarTerm(s)
	return nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

// MarshalJSON encodes a filter in its tuple form: [column, op, term].
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{f.Column, f.Op, f.Term})
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return errors.New("filter must be a [column, op, term] tuple")
	}
	if err := json.Unmarshal(parts[0], &f.Column); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &f.Op); err != nil {
		return err
	}
	return json.Unmarshal(parts[2], &f.Term)
}

// NormalizeTerm re-types scalars that lost their kind on the wire. JSON
// numbers decode as Float; for date and datetime columns they are millisecond
// timestamps and become DateTime scalars.
func NormalizeTerm(term FilterTerm, columnType ColumnType) FilterTerm {
	if columnType != ColumnDate && columnType != ColumnDatetime {
		return term
	}
	if term.Array {
		return term
	}
	if term.Scalar.Kind == KindFloat {
		return ScalarTerm(DateTimeScalar(int64(term.Scalar.Number)))
	}
	return term
}

// RowsToJson prepares scanned rows for JSON encoding. Values that encode
// poorly by default (decimals, uuids) go through their Stringer form;
// everything else is left to encoding/json.
func RowsToJson(rows []map[string]interface{}) []map[string]interface{} {
	result := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		item := make(map[string]interface{}, len(row))
		for name, value := range row {
			if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
				item[name] = nil
				continue
			}
			if stringer, ok := value.(fmt.Stringer); ok {
				item[name] = stringer.String()
			} else {
				item[name] = value
			}
		}
		result[i] = item
	}
	return result
}

// SuggestionText extracts the display text of a column value coming back from
// a row scan. Suggestion lookups only target string columns, so anything that
// is not text-like is rejected.
func SuggestionText(value interface{}) (string, bool) {
	switch value := value.(type) {
	case string:
		return value, true
	case *string:
		if value == nil {
			return "", false
		}
		return *value, true
	case fmt.Stringer:
		return value.String(), true
	default:
		return "", false
	}
}
