package rest

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/db"
	"github.com/adminradio/perspective/filter"
	t "github.com/adminradio/perspective/rest/translator"
)

// ApiRouter gets the router for the REST API.
func ApiRouter(dbClient *db.Db, schema *db.TableSchema, cfg config.Config) *httprouter.Router {
	rl := &routeList{
		dbClient:   dbClient,
		schema:     schema,
		controller: filter.NewController(schema),
		translator: t.APITranslator{
			Keyspace: cfg.Keyspace(),
			Table:    cfg.Table(),
			Naming:   cfg.Naming(),
		},
		naming:     cfg.Naming(),
		suggestLim: cfg.SuggestionLimit(),
		logger:     cfg.Logger(),
	}

	router := httprouter.New()
	router.GET("/columns", rl.GetColumns)
	router.GET("/columns/:column/operators", rl.GetOperators)
	router.POST("/filters/operator", rl.SetOperator)
	router.POST("/filters/value", rl.SetValue)
	router.POST("/filters/editor", rl.GetEditorState)
	router.GET("/suggestions", rl.GetSuggestions)
	router.POST("/query", rl.Query)
	router.GET("/", index)
	return router
}

func index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondWithJson(w, http.StatusOK, map[string]string{
		"columns":     "/columns",
		"operators":   "/columns/:column/operators",
		"operator":    "/filters/operator",
		"value":       "/filters/value",
		"editor":      "/filters/editor",
		"suggestions": "/suggestions",
		"query":       "/query",
	})
}
