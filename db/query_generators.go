package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/adminradio/perspective/types"
)

type SelectInfo struct {
	Keyspace string
	Table    string
	Where    []types.Filter
	OrderBy  []ColumnOrder
	Limit    int
}

type SuggestInfo struct {
	Keyspace string
	Table    string
	Column   string
	Prefix   string
	Limit    int
}

type ColumnOrder struct {
	Column string
	Order  string
}

// Select runs the view query for an applied filter list.
func (db *Db) Select(info *SelectInfo, options *QueryOptions) (ResultSet, error) {
	values := make([]interface{}, 0, len(info.Where))
	query := fmt.Sprintf("SELECT * FROM %s.%s", info.Keyspace, info.Table)

	if len(info.Where) > 0 {
		whereClause, err := buildWhereClause(info.Where, &values)
		if err != nil {
			return nil, err
		}
		query += " WHERE " + whereClause
	}

	if len(info.OrderBy) > 0 {
		query += " ORDER BY "
		for i, order := range info.OrderBy {
			if i > 0 {
				query += ", "
			}
			query += order.Column + " " + order.Order
		}
	}

	if info.Limit > 0 {
		query += " LIMIT ?"
		values = append(values, info.Limit)
	}

	return db.session.ExecuteIter(query, options, values...)
}

// Suggest returns distinct column values starting with the given prefix, for
// the autocomplete collaborator. Only meaningful for suggestable filters
// (equality on string columns); the caller is expected to gate on that.
func (db *Db) Suggest(info *SuggestInfo, options *QueryOptions) ([]string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s.%s LIMIT ?", info.Column, info.Keyspace, info.Table)
	rs, err := db.session.ExecuteIter(query, options, info.Limit)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	suggestions := make([]string, 0)
	for _, row := range rs.Values() {
		text, ok := types.SuggestionText(row[info.Column])
		if !ok || seen[text] {
			continue
		}
		if info.Prefix != "" && !strings.HasPrefix(text, info.Prefix) {
			continue
		}
		seen[text] = true
		suggestions = append(suggestions, text)
	}
	return suggestions, nil
}

// buildWhereClause translates filter conditions into a conjunction of CQL
// predicates, appending bind values along the way. A scalar term under the
// "in" operator (possible after an operator switch, before the next value
// edit) is treated as a single element list.
func buildWhereClause(filters []types.Filter, values *[]interface{}) (string, error) {
	predicates := make([]string, 0, len(filters))

	for _, item := range filters {
		switch item.Op {
		case types.OpIsNull:
			predicates = append(predicates, item.Column+" IS NULL")
		case types.OpIsNotNull:
			predicates = append(predicates, item.Column+" IS NOT NULL")
		case types.OpIn:
			terms := item.Term.Values
			if !item.Term.Array {
				terms = []types.Scalar{item.Term.Scalar}
			}
			placeholder := strings.TrimSuffix(strings.Repeat("?, ", len(terms)), ", ")
			predicates = append(predicates, item.Column+" IN ("+placeholder+")")
			for _, scalar := range terms {
				*values = append(*values, bindValue(scalar))
			}
		case types.OpBeginsWith:
			predicates = append(predicates, item.Column+" LIKE ?")
			*values = append(*values, likeText(item.Term.Scalar)+"%")
		case types.OpContains:
			predicates = append(predicates, item.Column+" LIKE ?")
			*values = append(*values, "%"+likeText(item.Term.Scalar)+"%")
		case types.OpEndsWith:
			predicates = append(predicates, item.Column+" LIKE ?")
			*values = append(*values, "%"+likeText(item.Term.Scalar))
		default:
			cqlOp, ok := types.CqlOperators[item.Op]
			if !ok {
				return "", fmt.Errorf("no CQL operator for %q", item.Op)
			}
			predicates = append(predicates, item.Column+" "+cqlOp+" ?")
			*values = append(*values, bindValue(item.Term.Scalar))
		}
	}

	return strings.Join(predicates, " AND "), nil
}

func bindValue(scalar types.Scalar) interface{} {
	switch scalar.Kind {
	case types.KindString:
		return scalar.Text
	case types.KindFloat:
		return scalar.Number
	case types.KindDateTime:
		return time.Unix(scalar.Millis/1000, (scalar.Millis%1000)*int64(time.Millisecond)).UTC()
	default:
		return nil
	}
}

func likeText(scalar types.Scalar) string {
	return scalar.Display()
}
