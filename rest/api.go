package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/db"
	"github.com/adminradio/perspective/filter"
	"github.com/adminradio/perspective/log"
	m "github.com/adminradio/perspective/rest/models"
	t "github.com/adminradio/perspective/rest/translator"
	"github.com/adminradio/perspective/types"
)

type routeList struct {
	dbClient   *db.Db
	schema     *db.TableSchema
	controller *filter.Controller
	translator t.APITranslator
	naming     config.NamingConvention
	suggestLim int
	logger     log.Logger
}

func (s *routeList) GetColumns(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	columns := s.schema.Columns()
	result := make([]m.Column, 0, len(columns))
	for name, columnType := range columns {
		result = append(result, m.Column{
			Name: s.naming.ToApiField(name),
			Type: string(columnType),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	respondWithJson(w, http.StatusOK, result)
}

func (s *routeList) GetOperators(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	fieldName := params.ByName("column")
	columnName := s.naming.ToDbColumn(fieldName)

	columnType, err := s.schema.ColumnType(columnName)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "unknown column "+fieldName)
		return
	}

	ops := filter.OperatorsForType(columnType)
	operators := make([]m.Operator, len(ops))
	for i, op := range ops {
		operators[i] = m.Operator{
			Symbol:      string(op),
			Suggestable: filter.IsSuggestable(op, columnType),
		}
	}
	respondWithJson(w, http.StatusOK, m.OperatorsResponse{
		Column:    fieldName,
		Type:      string(columnType),
		Operators: operators,
	})
}

func (s *routeList) SetOperator(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update m.OperatorUpdate
	if !s.decode(w, r, &update) {
		return
	}

	viewConfig, ok := s.toViewConfig(w, update.Filter, update.Index)
	if !ok {
		return
	}

	// Reject operators outside the column's legal set before they reach the
	// stored configuration.
	columnType, err := s.schema.ColumnType(viewConfig.Filter[update.Index].Column)
	if err != nil {
		s.respondLookupError(w, err)
		return
	}
	op := types.FilterOp(update.Operator)
	if !legalOperator(op, columnType) {
		respondWithError(w, http.StatusBadRequest,
			"operator "+update.Operator+" is not legal for "+string(columnType)+" columns")
		return
	}

	patch, err := s.controller.SetOperator(viewConfig, update.Index, op)
	if err != nil {
		s.respondLookupError(w, err)
		return
	}
	respondWithJson(w, http.StatusOK, s.patchResponse(patch))
}

func (s *routeList) SetValue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update m.ValueUpdate
	if !s.decode(w, r, &update) {
		return
	}

	viewConfig, ok := s.toViewConfig(w, update.Filter, update.Index)
	if !ok {
		return
	}

	patch, err := s.controller.SetValue(viewConfig, update.Index, *update.Value)
	if err != nil {
		s.respondLookupError(w, err)
		return
	}
	respondWithJson(w, http.StatusOK, s.patchResponse(patch))
}

func (s *routeList) GetEditorState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var state m.EditorState
	if !s.decode(w, r, &state) {
		return
	}

	viewConfig, ok := s.toViewConfig(w, state.Filter, state.Index)
	if !ok {
		return
	}

	text, textSet, err := s.controller.EditText(viewConfig, state.Index)
	if err != nil {
		s.respondLookupError(w, err)
		return
	}
	suggestable, err := s.controller.Suggestable(viewConfig, state.Index)
	if err != nil {
		s.respondLookupError(w, err)
		return
	}
	respondWithJson(w, http.StatusOK, m.EditorResponse{
		Text:        text,
		TextSet:     textSet,
		Suggestable: suggestable,
	})
}

func (s *routeList) GetSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	fieldName := query.Get("column")
	op := types.FilterOp(query.Get("op"))
	columnName := s.naming.ToDbColumn(fieldName)

	columnType, err := s.schema.ColumnType(columnName)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "unknown column "+fieldName)
		return
	}
	if !filter.IsSuggestable(op, columnType) {
		respondWithError(w, http.StatusBadRequest,
			"suggestions are only available for equality filters on string columns")
		return
	}

	suggestions, err := s.dbClient.Suggest(&db.SuggestInfo{
		Keyspace: s.translator.Keyspace,
		Table:    s.translator.Table,
		Column:   columnName,
		Prefix:   query.Get("prefix"),
		Limit:    s.suggestLim,
	}, db.NewQueryOptions())
	if err != nil {
		s.logger.Error("suggestion lookup failed", "column", columnName, "error", err)
		respondWithError(w, http.StatusInternalServerError, "unable to look up suggestions")
		return
	}
	respondWithJson(w, http.StatusOK, m.SuggestionsResponse{Values: suggestions})
}

func (s *routeList) Query(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request m.QueryRequest
	if !s.decode(w, r, &request) {
		return
	}

	viewConfig, err := s.translator.ToViewConfig(request.Filter, s.schema)
	if err != nil {
		s.respondLookupError(w, err)
		return
	}

	query, values, err := s.translator.ToSelectFromConfig(viewConfig, request.Limit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rs, err := s.dbClient.ExecuteIter(query, db.NewQueryOptions(), values...)
	if err != nil {
		s.logger.Error("view query failed", "query", query, "error", err)
		respondWithError(w, http.StatusInternalServerError, "unable to execute query")
		return
	}
	respondWithJson(w, http.StatusOK, m.Rows{
		Rows:      types.RowsToJson(rs.Values()),
		PageState: rs.PageState(),
	})
}

func (s *routeList) decode(w http.ResponseWriter, r *http.Request, model interface{}) bool {
	if r.Body == nil {
		respondWithError(w, http.StatusBadRequest, "no request body")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(model); err != nil {
		respondWithError(w, http.StatusBadRequest, "request body is not valid json: "+err.Error())
		return false
	}
	if err := t.Validate(model); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *routeList) toViewConfig(w http.ResponseWriter, filters []types.Filter, index int) (types.ViewConfig, bool) {
	if index >= len(filters) {
		respondWithError(w, http.StatusBadRequest, "index is out of range")
		return types.ViewConfig{}, false
	}
	viewConfig, err := s.translator.ToViewConfig(filters, s.schema)
	if err != nil {
		s.respondLookupError(w, err)
		return types.ViewConfig{}, false
	}
	return viewConfig, true
}

// respondLookupError maps schema lookup failures: an unknown column is an
// integration bug between the caller and the dataset, not a bad request.
func (s *routeList) respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, filter.ErrColumnNotFound) {
		s.logger.Error("filter references unknown column", "error", err)
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithError(w, http.StatusBadRequest, err.Error())
}

// patchResponse converts a controller patch back to the API naming. A nil
// patch means the edit was ignored and nothing must reach the owner.
func (s *routeList) patchResponse(patch *types.ViewConfigUpdate) m.PatchResponse {
	if patch == nil {
		return m.PatchResponse{Applied: false}
	}
	filters := make([]types.Filter, len(patch.Filter))
	for i, item := range patch.Filter {
		item.Column = s.naming.ToApiField(item.Column)
		filters[i] = item
	}
	return m.PatchResponse{
		Applied: true,
		Update:  &types.ViewConfigUpdate{Filter: filters},
	}
}

func legalOperator(op types.FilterOp, columnType types.ColumnType) bool {
	for _, legal := range filter.OperatorsForType(columnType) {
		if op == legal {
			return true
		}
	}
	return false
}

func respondWithJson(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func respondWithError(w http.ResponseWriter, code int, description string) {
	respondWithJson(w, code, m.ModelError{Description: description})
}
