package db

import (
	"fmt"

	"github.com/gocql/gocql"

	"github.com/adminradio/perspective/filter"
	"github.com/adminradio/perspective/types"
)

// TableSchema exposes the declared column types of a single table. It backs
// the filter controller's column type lookups and the REST/GraphQL column
// listings.
type TableSchema struct {
	keyspace string
	table    string
	columns  map[string]types.ColumnType
}

// NewTableSchema reads the table metadata and maps every CQL column to its
// filter column type. Columns with CQL types outside the filter model (blob,
// collections, udt) are skipped.
func NewTableSchema(db *Db, keyspace string, table string) (*TableSchema, error) {
	ksMetadata, err := db.Keyspace(keyspace)
	if err != nil {
		return nil, err
	}

	tableMetadata, ok := ksMetadata.Tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s not found in keyspace %s", table, keyspace)
	}

	columns := make(map[string]types.ColumnType, len(tableMetadata.Columns))
	for name, column := range tableMetadata.Columns {
		if columnType, ok := columnTypeForCql(column.Type); ok {
			columns[name] = columnType
		}
	}

	return &TableSchema{
		keyspace: keyspace,
		table:    table,
		columns:  columns,
	}, nil
}

// NewStaticSchema builds a schema from a fixed column map, without a live
// cluster. Used by tests and by deployments that declare the dataset shape in
// configuration.
func NewStaticSchema(keyspace string, table string, columns map[string]types.ColumnType) *TableSchema {
	copied := make(map[string]types.ColumnType, len(columns))
	for name, columnType := range columns {
		copied[name] = columnType
	}
	return &TableSchema{keyspace: keyspace, table: table, columns: copied}
}

func (s *TableSchema) Keyspace() string {
	return s.keyspace
}

func (s *TableSchema) Table() string {
	return s.table
}

// ColumnType implements filter.SchemaSource.
func (s *TableSchema) ColumnType(column string) (types.ColumnType, error) {
	columnType, ok := s.columns[column]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s.%s", filter.ErrColumnNotFound, column, s.keyspace, s.table)
	}
	return columnType, nil
}

// Columns returns a copy of the column type map.
func (s *TableSchema) Columns() map[string]types.ColumnType {
	columns := make(map[string]types.ColumnType, len(s.columns))
	for name, columnType := range s.columns {
		columns[name] = columnType
	}
	return columns
}

func columnTypeForCql(typeInfo gocql.TypeInfo) (types.ColumnType, bool) {
	switch typeInfo.Type() {
	case gocql.TypeText, gocql.TypeVarchar, gocql.TypeAscii,
		gocql.TypeUUID, gocql.TypeTimeUUID, gocql.TypeInet:
		return types.ColumnString, true
	case gocql.TypeInt, gocql.TypeSmallInt, gocql.TypeTinyInt,
		gocql.TypeBigInt, gocql.TypeCounter, gocql.TypeVarint:
		return types.ColumnInteger, true
	case gocql.TypeFloat, gocql.TypeDouble, gocql.TypeDecimal:
		return types.ColumnFloat, true
	case gocql.TypeBoolean:
		return types.ColumnBoolean, true
	case gocql.TypeDate:
		return types.ColumnDate, true
	case gocql.TypeTimestamp:
		return types.ColumnDatetime, true
	default:
		return "", false
	}
}
