package db

import (
	"errors"

	"github.com/gocql/gocql"
)

// Db represents a connection to a db
type Db struct {
	session Session
}

// NewDb Gets a pointer to a db
func NewDb(username string, password string, hosts ...string) (*Db, error) {
	cluster := gocql.NewCluster(hosts...)

	if username != "" || password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: username,
			Password: password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("failed to create session")
	}

	return NewDbWithSession(&GoCqlSession{ref: session}), nil
}

// NewDbWithSession Gets a pointer to a db from a session
func NewDbWithSession(session Session) *Db {
	return &Db{session: session}
}

// Keyspace Retrieves the keyspace metadata
func (db *Db) Keyspace(keyspace string) (*gocql.KeyspaceMetadata, error) {
	return db.session.KeyspaceMetadata(keyspace)
}

// ExecuteIter executes a statement and returns the result set
func (db *Db) ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	return db.session.ExecuteIter(query, options, values...)
}
