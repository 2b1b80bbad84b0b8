package translator

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/types"
)

type mapSchema map[string]types.ColumnType

func (m mapSchema) ColumnType(column string) (types.ColumnType, error) {
	columnType, ok := m[column]
	if !ok {
		return "", fmt.Errorf("column not found: %s", column)
	}
	return columnType, nil
}

func TestToSelectFromConfig(t *testing.T) {
	tests := []struct {
		name       string
		translator APITranslator
		filters    []types.Filter
		limit      int
		want       string
		want1      []interface{}
		wantErr    bool
	}{
		{
			name:       "no filters",
			translator: APITranslator{Keyspace: "store", Table: "books"},
			want:       "SELECT * FROM store.books",
			want1:      nil,
		},
		{
			name:       "single equality",
			translator: APITranslator{Keyspace: "store", Table: "books"},
			filters: []types.Filter{
				{Column: "title", Op: types.OpEq, Term: types.ScalarTerm(types.StringScalar("Dune"))},
			},
			want:  "SELECT * FROM store.books WHERE title = ?",
			want1: []interface{}{"Dune"},
		},
		{
			name:       "conjunction with limit",
			translator: APITranslator{Keyspace: "store", Table: "books"},
			filters: []types.Filter{
				{Column: "pages", Op: types.OpGt, Term: types.ScalarTerm(types.FloatScalar(100))},
				{Column: "title", Op: types.OpBeginsWith, Term: types.ScalarTerm(types.StringScalar("D"))},
			},
			limit: 10,
			want:  "SELECT * FROM store.books WHERE pages > ? AND title LIKE ? LIMIT ?",
			want1: []interface{}{float64(100), "D%", 10},
		},
		{
			name:       "in list",
			translator: APITranslator{Keyspace: "store", Table: "books"},
			filters: []types.Filter{
				{Column: "title", Op: types.OpIn, Term: types.ArrayTerm([]types.Scalar{
					types.StringScalar("a"), types.StringScalar("b"),
				})},
			},
			want:  "SELECT * FROM store.books WHERE title IN (?,?)",
			want1: []interface{}{"a", "b"},
		},
		{
			name:       "null predicates",
			translator: APITranslator{Keyspace: "store", Table: "books"},
			filters: []types.Filter{
				{Column: "price", Op: types.OpIsNull},
			},
			want:  "SELECT * FROM store.books WHERE price IS NULL",
			want1: nil,
		},
		{
			name:       "missing keyspace",
			translator: APITranslator{Table: "books"},
			wantErr:    true,
		},
		{
			name:       "missing table",
			translator: APITranslator{Keyspace: "store"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, got1, err := tt.translator.ToSelectFromConfig(types.ViewConfig{Filter: tt.filters}, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Errorf("ToSelectFromConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				dmp := diffmatchpatch.New()
				diffs := dmp.DiffMain(tt.want, got, false)
				t.Errorf("ToSelectFromConfig() got = %v, want %v, diff = %v", got, tt.want, dmp.DiffPrettyText(diffs))
			}
			if !reflect.DeepEqual(got1, tt.want1) {
				t.Errorf("ToSelectFromConfig() got1 = %v, want %v", got1, tt.want1)
			}
		})
	}
}

func TestToViewConfig(t *testing.T) {
	schema := mapSchema{
		"first_name": types.ColumnString,
		"released":   types.ColumnDate,
	}
	translator := APITranslator{Keyspace: "store", Table: "books", Naming: config.NewDefaultNaming()}

	viewConfig, err := translator.ToViewConfig([]types.Filter{
		{Column: "firstName", Op: types.OpEq, Term: types.ScalarTerm(types.StringScalar("x"))},
		{Column: "released", Op: types.OpGte, Term: types.ScalarTerm(types.FloatScalar(1586908800000))},
	}, schema)

	assert.Nil(t, err)
	assert.Equal(t, "first_name", viewConfig.Filter[0].Column)
	// JSON numbers on date columns re-type as millisecond timestamps
	assert.Equal(t, types.DateTimeScalar(1586908800000), viewConfig.Filter[1].Term.Scalar)
}

func TestToViewConfigUnknownColumn(t *testing.T) {
	translator := APITranslator{Keyspace: "store", Table: "books"}
	_, err := translator.ToViewConfig([]types.Filter{
		{Column: "missing", Op: types.OpEq},
	}, mapSchema{})
	assert.NotNil(t, err)
}
