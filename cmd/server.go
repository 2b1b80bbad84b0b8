package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/adminradio/perspective/endpoint"
	"github.com/adminradio/perspective/graphql"
	"github.com/adminradio/perspective/log"
)

const defaultGraphQLPath = "/graphql"
const defaultGraphQLPlaygroundPath = "/graphql-playground"

// Environment variables prefixed with "FILTER_API_" can override settings e.g. "FILTER_API_HOSTS"
const envVarPrefix = "filter_api"

var cfgFile string
var logger log.Logger
var cfg *endpoint.DataEndpointConfig

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --hosts [HOSTS] --keyspace [KEYSPACE] --table [TABLE] [OPTIONS]",
	Short: "Filter condition endpoints for an Apache Cassandra dataset",
	Args: func(cmd *cobra.Command, args []string) error {
		hosts := getStringSlice("hosts")
		if len(hosts) == 0 {
			return errors.New("hosts are required")
		}
		if viper.GetString("keyspace") == "" || viper.GetString("table") == "" {
			return errors.New("keyspace and table are required")
		}

		if !viper.GetBool("start-graphql") && !viper.GetBool("start-rest") {
			return errors.New("at least one endpoint type should be started")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataEndpoint := createEndpoint()

		router := httprouter.New()
		endpointNames := make([]string, 0, 2)

		if viper.GetBool("start-graphql") {
			addGraphQLRoutes(router, dataEndpoint)
			endpointNames = append(endpointNames, "GraphQL")
		}
		if viper.GetBool("start-rest") {
			// The REST surface owns every path the graphql routes don't claim
			router.NotFound = dataEndpoint.RouterREST()
			endpointNames = append(endpointNames, "REST")
		}

		listenAndServe(router, viper.GetInt("port"), strings.Join(endpointNames, "/"))
	},
}

// Execute starts the filter endpoints.
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.StringSliceP("hosts", "t", nil, "hosts for connecting to the database")
	flags.StringP("username", "u", "", "connect with database username")
	flags.StringP("password", "p", "", "database user's password")

	flags.String("keyspace", "", "keyspace of the dataset")
	flags.String("table", "", "table of the dataset")
	flags.Int("suggestion-limit", endpoint.DefaultSuggestionLimit, "number of rows scanned per value suggestion lookup")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")

	flags.Bool("start-graphql", true, "start the GraphQL endpoint")
	flags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	flags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	flags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")

	flags.Bool("start-rest", true, "start the REST endpoint")

	flags.Int("port", 8080, "endpoint port")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.DataEndpoint {
	cfg = endpoint.NewEndpointConfigWithLogger(logger, getStringSlice("hosts")...)

	suggestionLimit := viper.GetInt("suggestion-limit")
	if suggestionLimit <= 0 {
		suggestionLimit = endpoint.DefaultSuggestionLimit
	}

	cfg.
		WithDbUsername(viper.GetString("username")).
		WithDbPassword(viper.GetString("password")).
		WithKeyspace(viper.GetString("keyspace")).
		WithTable(viper.GetString("table")).
		WithSuggestionLimit(suggestionLimit)

	dataEndpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable to create new endpoint",
			"error", err)
	}

	return dataEndpoint
}

func addGraphQLRoutes(router *httprouter.Router, dataEndpoint *endpoint.DataEndpoint) {
	rootPath := viper.GetString("graphql-path")

	routes, err := dataEndpoint.RoutesGraphQL(rootPath)
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}

	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}

	if viper.GetBool("graphql-playground") {
		playgroundPath := viper.GetString("graphql-playground-path")
		hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
		endpointUrl := fmt.Sprintf("%s%s", hostAndPort, rootPath)
		logger.Info("get started by visiting the GraphQL playground",
			"url", fmt.Sprintf("%s%s", hostAndPort, playgroundPath))
		router.Handler(http.MethodGet, playgroundPath, graphql.PlaygroundHandler(endpointUrl))
	}
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func listenAndServe(handler http.Handler, port int, endpointNames string) {
	logger.Info("server listening",
		"port", port,
		"type", endpointNames)
	handler = maybeAddCORS(maybeAddRequestLogging(handler))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
