package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/db"
	"github.com/adminradio/perspective/log"
	"github.com/adminradio/perspective/types"
)

type executeQueryFunc func(query string, ctx context.Context) *graphql.Result

type RouteGenerator struct {
	schemaGen *SchemaGenerator
	logger    log.Logger
}

type RequestBody struct {
	Query string `json:"query"`
}

func NewRouteGenerator(dbClient *db.Db, schema *db.TableSchema, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		schemaGen: NewSchemaGenerator(dbClient, schema, cfg),
		logger:    cfg.Logger(),
	}
}

// Routes builds the GraphQL schema once and returns the routes serving it at
// the given pattern.
func (rg *RouteGenerator) Routes(pattern string) ([]types.Route, error) {
	schema, err := rg.schemaGen.BuildSchema()
	if err != nil {
		return nil, fmt.Errorf("unable to build graphql schema: %s", err)
	}

	return routesForSchema(pattern, func(query string, ctx context.Context) *graphql.Result {
		return rg.executeQuery(query, ctx, schema)
	}), nil
}

func routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				result := execute(r.URL.Query().Get("query"), r.Context())
				err := json.NewEncoder(w).Encode(result)
				if err != nil {
					http.Error(w, "response could not be encoded: "+err.Error(), 500)
				}
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", 400)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", 400)
					return
				}

				result := execute(body.Query, r.Context())
				err = json.NewEncoder(w).Encode(result)
				if err != nil {
					http.Error(w, "response could not be encoded: "+err.Error(), 500)
				}
			}),
		},
	}
}

func (rg *RouteGenerator) executeQuery(query string, ctx context.Context, schema graphql.Schema) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Error("unexpected errors processing graphql query", "errors", result.Errors)
	}
	return result
}
