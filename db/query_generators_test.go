package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adminradio/perspective/types"
)

func TestSelectGeneration(t *testing.T) {
	releasedMillis := time.Date(2020, 4, 15, 0, 0, 0, 0, time.UTC).UnixNano() / int64(time.Millisecond)

	items := []struct {
		name        string
		where       []types.Filter
		orderBy     []ColumnOrder
		limit       int
		query       string
		queryParams []interface{}
	}{
		{
			name:        "no filters",
			query:       "SELECT * FROM store.books",
			queryParams: nil,
		},
		{
			name: "equality",
			where: []types.Filter{
				{Column: "title", Op: types.OpEq, Term: types.ScalarTerm(types.StringScalar("Dune"))},
			},
			query:       "SELECT * FROM store.books WHERE title = ?",
			queryParams: []interface{}{"Dune"},
		},
		{
			name: "conjunction with comparison",
			where: []types.Filter{
				{Column: "pages", Op: types.OpGte, Term: types.ScalarTerm(types.FloatScalar(100))},
				{Column: "price", Op: types.OpLt, Term: types.ScalarTerm(types.FloatScalar(9.99))},
			},
			query:       "SELECT * FROM store.books WHERE pages >= ? AND price < ?",
			queryParams: []interface{}{float64(100), 9.99},
		},
		{
			name: "in with array term",
			where: []types.Filter{
				{Column: "title", Op: types.OpIn, Term: types.ArrayTerm([]types.Scalar{
					types.StringScalar("a"), types.StringScalar("b"), types.StringScalar("c"),
				})},
			},
			query:       "SELECT * FROM store.books WHERE title IN (?, ?, ?)",
			queryParams: []interface{}{"a", "b", "c"},
		},
		{
			name: "in with lingering scalar term",
			where: []types.Filter{
				{Column: "title", Op: types.OpIn, Term: types.ScalarTerm(types.StringScalar("a"))},
			},
			query:       "SELECT * FROM store.books WHERE title IN (?)",
			queryParams: []interface{}{"a"},
		},
		{
			name: "substring operators",
			where: []types.Filter{
				{Column: "title", Op: types.OpBeginsWith, Term: types.ScalarTerm(types.StringScalar("Du"))},
				{Column: "title", Op: types.OpEndsWith, Term: types.ScalarTerm(types.StringScalar("ne"))},
				{Column: "title", Op: types.OpContains, Term: types.ScalarTerm(types.StringScalar("un"))},
			},
			query:       "SELECT * FROM store.books WHERE title LIKE ? AND title LIKE ? AND title LIKE ?",
			queryParams: []interface{}{"Du%", "%ne", "%un%"},
		},
		{
			name: "null checks take no bind values",
			where: []types.Filter{
				{Column: "price", Op: types.OpIsNull},
				{Column: "pages", Op: types.OpIsNotNull},
			},
			query:       "SELECT * FROM store.books WHERE price IS NULL AND pages IS NOT NULL",
			queryParams: nil,
		},
		{
			name: "datetime binds as utc time",
			where: []types.Filter{
				{Column: "released", Op: types.OpEq, Term: types.ScalarTerm(types.DateTimeScalar(releasedMillis))},
			},
			query:       "SELECT * FROM store.books WHERE released = ?",
			queryParams: []interface{}{time.Date(2020, 4, 15, 0, 0, 0, 0, time.UTC)},
		},
		{
			name: "order by and limit",
			where: []types.Filter{
				{Column: "title", Op: types.OpNe, Term: types.ScalarTerm(types.StringScalar("x"))},
			},
			orderBy:     []ColumnOrder{{Column: "released", Order: "DESC"}},
			limit:       50,
			query:       "SELECT * FROM store.books WHERE title != ? ORDER BY released DESC LIMIT ?",
			queryParams: []interface{}{"x", 50},
		},
	}

	for _, item := range items {
		sessionMock := &SessionMock{}
		sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
			Return(&goCqlResultIterator{}, nil)
		db := NewDbWithSession(sessionMock)

		_, err := db.Select(&SelectInfo{
			Keyspace: "store",
			Table:    "books",
			Where:    item.where,
			OrderBy:  item.orderBy,
			Limit:    item.limit,
		}, nil)
		assert.Nil(t, err, item.name)

		expectedParams := item.queryParams
		if expectedParams == nil {
			expectedParams = []interface{}{}
		}
		sessionMock.AssertCalled(t, "ExecuteIter", item.query, mock.Anything, expectedParams)
		sessionMock.AssertExpectations(t)
	}
}

func TestSuggest(t *testing.T) {
	sessionMock := &SessionMock{}
	resultMock := &ResultMock{}
	resultMock.On("Values").Return([]map[string]interface{}{
		{"title": strPointer("Dune")},
		{"title": strPointer("Dune")},
		{"title": strPointer("Drift")},
		{"title": strPointer("Solaris")},
		{"title": (*string)(nil)},
	})
	sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
		Return(resultMock, nil)
	db := NewDbWithSession(sessionMock)

	suggestions, err := db.Suggest(&SuggestInfo{
		Keyspace: "store",
		Table:    "books",
		Column:   "title",
		Prefix:   "D",
		Limit:    100,
	}, nil)

	assert.Nil(t, err)
	assert.Equal(t, []string{"Dune", "Drift"}, suggestions)
	sessionMock.AssertCalled(t, "ExecuteIter",
		"SELECT title FROM store.books LIMIT ?", mock.Anything, []interface{}{100})
}

func strPointer(s string) *string {
	return &s
}
