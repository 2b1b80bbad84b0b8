package db

import (
	"encoding/hex"
	"reflect"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"
)

type QueryOptions struct {
	PageSize    int
	PageState   string
	Consistency gocql.Consistency
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency: gocql.LocalOne,
	}
}

func (q *QueryOptions) WithPageSize(pageSize int) *QueryOptions {
	q.PageSize = pageSize
	return q
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

type Session interface {
	// Execute executes a statement without returning row results
	Execute(query string, options *QueryOptions, values ...interface{}) error

	// ExecuteIter executes a statement and returns the result set
	ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error)

	KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error)
}

type ResultSet interface {
	PageState() string
	Values() []map[string]interface{}
}

type goCqlResultIterator struct {
	pageState []byte
	values    []map[string]interface{}
}

func (r *goCqlResultIterator) PageState() string {
	return hex.EncodeToString(r.pageState)
}

func (r *goCqlResultIterator) Values() []map[string]interface{} {
	return r.values
}

func newResultIterator(iter *gocql.Iter) (*goCqlResultIterator, error) {
	columns := iter.Columns()
	scanner := iter.Scanner()

	items := make([]map[string]interface{}, 0)
	for scanner.Next() {
		row, err := mapScan(scanner, columns)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &goCqlResultIterator{
		pageState: iter.PageState(),
		values:    items,
	}, nil
}

type GoCqlSession struct {
	ref *gocql.Session
}

func (session *GoCqlSession) Execute(query string, options *QueryOptions, values ...interface{}) error {
	_, err := session.ExecuteIter(query, options, values...)
	return err
}

func (session *GoCqlSession) ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	q := session.ref.Query(query, values...)

	if options != nil {
		q.Consistency(options.Consistency)
		if options.PageSize > 0 {
			q.PageSize(options.PageSize)
		}
		if options.PageState != "" {
			state, err := hex.DecodeString(options.PageState)
			if err != nil {
				return nil, err
			}
			q.PageState(state)
		}
	}

	return newResultIterator(q.Iter())
}

func (session *GoCqlSession) KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error) {
	return session.ref.KeyspaceMetadata(keyspaceName)
}

func mapScan(scanner gocql.Scanner, columns []gocql.ColumnInfo) (map[string]interface{}, error) {
	values := make([]interface{}, len(columns))

	for i := range values {
		typeInfo := columns[i].TypeInfo
		switch typeInfo.Type() {
		case gocql.TypeVarchar, gocql.TypeAscii, gocql.TypeInet, gocql.TypeText:
			values[i] = new(*string)
		case gocql.TypeBoolean:
			values[i] = new(*bool)
		case gocql.TypeFloat:
			values[i] = new(*float32)
		case gocql.TypeDouble:
			values[i] = new(*float64)
		case gocql.TypeInt:
			values[i] = new(*int)
		case gocql.TypeSmallInt:
			values[i] = new(*int16)
		case gocql.TypeTinyInt:
			values[i] = new(*int8)
		case gocql.TypeBigInt, gocql.TypeCounter:
			values[i] = new(*int64)
		case gocql.TypeDecimal:
			values[i] = new(*inf.Dec)
		case gocql.TypeTimeUUID, gocql.TypeUUID:
			values[i] = new(*gocql.UUID)
		case gocql.TypeTimestamp, gocql.TypeDate:
			values[i] = new(*time.Time)
		default:
			values[i] = new(interface{})
		}
	}

	if err := scanner.Scan(values...); err != nil {
		return nil, err
	}

	mapped := make(map[string]interface{}, len(values))
	for i, column := range columns {
		mapped[column.Name] = reflect.Indirect(reflect.ValueOf(values[i])).Interface()
	}

	return mapped, nil
}
