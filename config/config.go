package config

import (
	"github.com/adminradio/perspective/log"
)

// Config carries the endpoint level settings shared between the REST and
// GraphQL surfaces.
type Config interface {
	// Keyspace and Table identify the dataset whose view configuration is
	// edited through this endpoint.
	Keyspace() string
	Table() string

	// SuggestionLimit caps how many rows a value suggestion lookup scans.
	SuggestionLimit() int

	Naming() NamingConvention
	Logger() log.Logger
}
