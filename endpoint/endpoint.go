package endpoint

import (
	"go.uber.org/zap"

	"github.com/julienschmidt/httprouter"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/db"
	"github.com/adminradio/perspective/graphql"
	"github.com/adminradio/perspective/log"
	"github.com/adminradio/perspective/rest"
	"github.com/adminradio/perspective/types"
)

const DefaultSuggestionLimit = 100

// DataEndpointConfig collects the settings for an endpoint over a single
// dataset. It implements config.Config for the REST and GraphQL surfaces.
type DataEndpointConfig struct {
	dbHosts         []string
	dbUsername      string
	dbPassword      string
	keyspace        string
	table           string
	suggestionLimit int
	naming          config.NamingConvention
	logger          log.Logger
}

func (cfg DataEndpointConfig) Keyspace() string {
	return cfg.keyspace
}

func (cfg DataEndpointConfig) Table() string {
	return cfg.table
}

func (cfg DataEndpointConfig) SuggestionLimit() int {
	return cfg.suggestionLimit
}

func (cfg DataEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *DataEndpointConfig) WithDbUsername(dbUsername string) *DataEndpointConfig {
	cfg.dbUsername = dbUsername
	return cfg
}

func (cfg *DataEndpointConfig) WithDbPassword(dbPassword string) *DataEndpointConfig {
	cfg.dbPassword = dbPassword
	return cfg
}

func (cfg *DataEndpointConfig) WithKeyspace(keyspace string) *DataEndpointConfig {
	cfg.keyspace = keyspace
	return cfg
}

func (cfg *DataEndpointConfig) WithTable(table string) *DataEndpointConfig {
	cfg.table = table
	return cfg
}

func (cfg *DataEndpointConfig) WithSuggestionLimit(limit int) *DataEndpointConfig {
	cfg.suggestionLimit = limit
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConvention) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg DataEndpointConfig) NewEndpoint() (*DataEndpoint, error) {
	dbClient, err := db.NewDb(cfg.dbUsername, cfg.dbPassword, cfg.dbHosts...)
	if err != nil {
		return nil, err
	}
	return cfg.newEndpointWithDb(dbClient)
}

func (cfg DataEndpointConfig) newEndpointWithDb(dbClient *db.Db) (*DataEndpoint, error) {
	schema, err := db.NewTableSchema(dbClient, cfg.keyspace, cfg.table)
	if err != nil {
		return nil, err
	}
	return &DataEndpoint{
		dbClient:        dbClient,
		schema:          schema,
		cfg:             cfg,
		graphQLRouteGen: graphql.NewRouteGenerator(dbClient, schema, cfg),
	}, nil
}

// DataEndpoint serves the filter editing surfaces for one dataset.
type DataEndpoint struct {
	dbClient        *db.Db
	schema          *db.TableSchema
	cfg             DataEndpointConfig
	graphQLRouteGen *graphql.RouteGenerator
}

func NewEndpointConfig(hosts ...string) (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), hosts...), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, hosts ...string) *DataEndpointConfig {
	return &DataEndpointConfig{
		dbHosts:         hosts,
		suggestionLimit: DefaultSuggestionLimit,
		naming:          config.NewDefaultNaming(),
		logger:          logger,
	}
}

func (e *DataEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern)
}

func (e *DataEndpoint) RouterREST() *httprouter.Router {
	return rest.ApiRouter(e.dbClient, e.schema, e.cfg)
}
