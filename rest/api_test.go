package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/db"
	"github.com/adminradio/perspective/log"
	m "github.com/adminradio/perspective/rest/models"
	"github.com/adminradio/perspective/types"
)

type testConfig struct{}

func (c testConfig) Keyspace() string                { return "store" }
func (c testConfig) Table() string                   { return "books" }
func (c testConfig) SuggestionLimit() int            { return 25 }
func (c testConfig) Naming() config.NamingConvention { return config.NewDefaultNaming() }
func (c testConfig) Logger() log.Logger              { return log.NewZapLogger(zap.NewNop()) }

func newTestRouter(t *testing.T) (http.Handler, *db.SessionMock) {
	sessionMock := db.NewSessionMock()
	dbClient := db.NewDbWithSession(sessionMock)
	schema, err := db.NewTableSchema(dbClient, "store", "books")
	assert.Nil(t, err)
	return ApiRouter(dbClient, schema, testConfig{}), sessionMock
}

func doRequest(router http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestGetColumns(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/columns", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var columns []m.Column
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &columns))
	// cover is a blob column and has no filter type, so it is not listed
	assert.Equal(t, []m.Column{
		{Name: "inPrint", Type: "boolean"},
		{Name: "pages", Type: "integer"},
		{Name: "price", Type: "float"},
		{Name: "released", Type: "date"},
		{Name: "title", Type: "string"},
		{Name: "updatedAt", Type: "datetime"},
	}, columns)
}

func TestGetOperators(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/columns/title/operators", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.OperatorsResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "title", response.Column)
	assert.Equal(t, "string", response.Type)
	assert.Len(t, response.Operators, 12)
	assert.Equal(t, m.Operator{Symbol: "==", Suggestable: true}, response.Operators[0])

	recorder = doRequest(router, http.MethodGet, "/columns/pages/operators", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Operators, 8)
	for _, op := range response.Operators {
		assert.False(t, op.Suggestable)
	}
}

func TestGetOperatorsUnknownColumn(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/columns/missing/operators", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSetOperatorEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"filter": [["title", "==", "Dune"]], "index": 0, "operator": "contains"}`
	recorder := doRequest(router, http.MethodPost, "/filters/operator", body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.PatchResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.Applied)
	assert.Equal(t, types.OpContains, response.Update.Filter[0].Op)
	// the term rides along unchanged
	assert.Equal(t, types.StringScalar("Dune"), response.Update.Filter[0].Term.Scalar)
}

func TestSetOperatorIllegalForType(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"filter": [["pages", ">", 100]], "index": 0, "operator": "begins with"}`
	recorder := doRequest(router, http.MethodPost, "/filters/operator", body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSetValueEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"filter": [["pages", ">", 100]], "index": 0, "value": "250"}`
	recorder := doRequest(router, http.MethodPost, "/filters/value", body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.PatchResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.Applied)
	assert.Equal(t, types.FloatScalar(250), response.Update.Filter[0].Term.Scalar)
}

func TestSetValueIgnoredKeystroke(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"filter": [["pages", ">", 100]], "index": 0, "value": "abc"}`
	recorder := doRequest(router, http.MethodPost, "/filters/value", body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.PatchResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.False(t, response.Applied)
	assert.Nil(t, response.Update)
}

func TestSetValueUnknownColumnIsServerError(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"filter": [["missing", "==", "x"]], "index": 0, "value": "y"}`
	recorder := doRequest(router, http.MethodPost, "/filters/value", body)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestSetValueMissingBodyField(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodPost, "/filters/value",
		`{"filter": [["title", "==", "x"]], "index": 0}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var modelError m.ModelError
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &modelError))
	assert.Contains(t, modelError.Description, "required")
}

func TestEditorStateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"filter": [["released", ">", 1586908800000]], "index": 0}`
	recorder := doRequest(router, http.MethodPost, "/filters/editor", body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.EditorResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.TextSet)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, response.Text)
	assert.False(t, response.Suggestable)
}

func TestGetSuggestions(t *testing.T) {
	router, sessionMock := newTestRouter(t)

	resultMock := &db.ResultMock{}
	resultMock.On("Values").Return([]map[string]interface{}{
		{"title": strPointer("Dune")},
		{"title": strPointer("Dracula")},
		{"title": strPointer("Emma")},
	})
	sessionMock.On("ExecuteIter",
		"SELECT title FROM store.books LIMIT ?", mock.Anything, []interface{}{25}).
		Return(resultMock, nil)

	query := url.Values{"column": {"title"}, "op": {"=="}, "prefix": {"D"}}
	recorder := doRequest(router, http.MethodGet, "/suggestions?"+query.Encode(), "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.SuggestionsResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, []string{"Dune", "Dracula"}, response.Values)
}

func TestGetSuggestionsNotSuggestable(t *testing.T) {
	router, _ := newTestRouter(t)

	query := url.Values{"column": {"title"}, "op": {"contains"}}
	recorder := doRequest(router, http.MethodGet, "/suggestions?"+query.Encode(), "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	query = url.Values{"column": {"pages"}, "op": {"=="}}
	recorder = doRequest(router, http.MethodGet, "/suggestions?"+query.Encode(), "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestQueryEndpoint(t *testing.T) {
	router, sessionMock := newTestRouter(t)

	resultMock := &db.ResultMock{}
	resultMock.On("Values").Return([]map[string]interface{}{
		{"title": "Dune", "pages": 412},
	})
	resultMock.On("PageState").Return("")
	sessionMock.On("ExecuteIter",
		"SELECT * FROM store.books WHERE title = ? LIMIT ?", mock.Anything,
		[]interface{}{"Dune", 5}).
		Return(resultMock, nil)

	body := `{"filter": [["title", "==", "Dune"]], "limit": 5}`
	recorder := doRequest(router, http.MethodPost, "/query", body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response m.Rows
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Rows, 1)
	assert.Equal(t, "Dune", response.Rows[0]["title"])
}

func strPointer(value string) *string {
	return &value
}
