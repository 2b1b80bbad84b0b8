package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterTupleJson(t *testing.T) {
	item := Filter{
		Column: "title",
		Op:     OpIn,
		Term: ArrayTerm([]Scalar{
			StringScalar("a"), StringScalar("b"),
		}),
	}

	encoded, err := json.Marshal(item)
	assert.Nil(t, err)
	assert.Equal(t, `["title","in",["a","b"]]`, string(encoded))

	var decoded Filter
	assert.Nil(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, item, decoded)
}

func TestFilterTupleJsonScalarKinds(t *testing.T) {
	var decoded Filter
	assert.Nil(t, json.Unmarshal([]byte(`["pages", ">", 3.5]`), &decoded))
	assert.Equal(t, FloatScalar(3.5), decoded.Term.Scalar)

	assert.Nil(t, json.Unmarshal([]byte(`["title", "==", null]`), &decoded))
	assert.Equal(t, NullScalar(), decoded.Term.Scalar)

	assert.Error(t, json.Unmarshal([]byte(`["title", "=="]`), &decoded))
}

func TestNormalizeTerm(t *testing.T) {
	// JSON numbers on temporal columns are millisecond timestamps
	term := NormalizeTerm(ScalarTerm(FloatScalar(1586908800000)), ColumnDate)
	assert.Equal(t, DateTimeScalar(1586908800000), term.Scalar)

	term = NormalizeTerm(ScalarTerm(FloatScalar(3.5)), ColumnFloat)
	assert.Equal(t, FloatScalar(3.5), term.Scalar)

	array := ArrayTerm([]Scalar{FloatScalar(1)})
	assert.Equal(t, array, NormalizeTerm(array, ColumnDatetime))
}

func TestScalarDisplay(t *testing.T) {
	assert.Equal(t, "", NullScalar().Display())
	assert.Equal(t, "abc", StringScalar("abc").Display())
	assert.Equal(t, "3.5", FloatScalar(3.5).Display())
	assert.Equal(t, "42", FloatScalar(42).Display())
	assert.Equal(t, "1586908800000", DateTimeScalar(1586908800000).Display())
}

func TestTermDisplay(t *testing.T) {
	term := ArrayTerm([]Scalar{StringScalar("a"), StringScalar(""), StringScalar("c")})
	assert.Equal(t, "a,,c", term.Display())
}

func TestRowsToJson(t *testing.T) {
	now := time.Now()
	var missing *string

	rows := RowsToJson([]map[string]interface{}{
		{"updated_at": &now, "title": "abc", "pages": 42, "price": missing},
	})

	assert.Equal(t, now.String(), rows[0]["updated_at"])
	assert.Equal(t, "abc", rows[0]["title"])
	assert.Equal(t, 42, rows[0]["pages"])
	assert.Nil(t, rows[0]["price"])
}

func TestSuggestionText(t *testing.T) {
	text, ok := SuggestionText("abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", text)

	value := "def"
	text, ok = SuggestionText(&value)
	assert.True(t, ok)
	assert.Equal(t, "def", text)

	_, ok = SuggestionText((*string)(nil))
	assert.False(t, ok)

	_, ok = SuggestionText(42)
	assert.False(t, ok)
}
