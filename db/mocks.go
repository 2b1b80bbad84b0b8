package db

import (
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func (o *SessionMock) Execute(query string, options *QueryOptions, values ...interface{}) error {
	args := o.Called(query, options, values)
	return args.Error(0)
}

func (o *SessionMock) ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	args := o.Called(query, options, values)
	return args.Get(0).(ResultSet), args.Error(1)
}

func (o *SessionMock) KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error) {
	args := o.Called(keyspaceName)
	return args.Get(0).(*gocql.KeyspaceMetadata), args.Error(1)
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) PageState() string {
	return o.Called().String(0)
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}

// NewSessionMock returns a session mock with metadata for a "store.books"
// table that covers every supported column type.
func NewSessionMock() *SessionMock {
	sessionMock := &SessionMock{}

	columns := map[string]*gocql.ColumnMetadata{
		"title":      newColumnMetadata("title", 0, gocql.ColumnPartitionKey, gocql.TypeText),
		"pages":      newColumnMetadata("pages", 1, gocql.ColumnRegular, gocql.TypeInt),
		"price":      newColumnMetadata("price", 2, gocql.ColumnRegular, gocql.TypeDouble),
		"in_print":   newColumnMetadata("in_print", 3, gocql.ColumnRegular, gocql.TypeBoolean),
		"released":   newColumnMetadata("released", 4, gocql.ColumnRegular, gocql.TypeDate),
		"updated_at": newColumnMetadata("updated_at", 5, gocql.ColumnRegular, gocql.TypeTimestamp),
		"cover":      newColumnMetadata("cover", 6, gocql.ColumnRegular, gocql.TypeBlob),
	}

	sessionMock.On("KeyspaceMetadata", "store").Return(&gocql.KeyspaceMetadata{
		Name: "store",
		Tables: map[string]*gocql.TableMetadata{
			"books": {
				Keyspace: "store",
				Name:     "books",
				Columns:  columns,
			},
		},
	}, nil)

	return sessionMock
}

func newColumnMetadata(name string, index int, kind gocql.ColumnKind, cqlType gocql.Type) *gocql.ColumnMetadata {
	return &gocql.ColumnMetadata{
		Keyspace:       "store",
		Table:          "books",
		Name:           name,
		ComponentIndex: index,
		Kind:           kind,
		Type:           gocql.NewNativeType(0, cqlType, ""),
	}
}
