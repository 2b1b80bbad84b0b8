package graphql

import (
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/db"
	"github.com/adminradio/perspective/filter"
	"github.com/adminradio/perspective/types"
)

var columnType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Column",
	Fields: graphql.Fields{
		"name": {Type: graphql.NewNonNull(graphql.String)},
		"type": {Type: graphql.NewNonNull(graphql.String)},
	},
})

var operatorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Operator",
	Fields: graphql.Fields{
		"symbol":      {Type: graphql.NewNonNull(graphql.String)},
		"suggestable": {Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var patchType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Patch",
	Fields: graphql.Fields{
		"applied": {Type: graphql.NewNonNull(graphql.Boolean)},
		"filter":  {Type: filters},
	},
})

var editorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Editor",
	Fields: graphql.Fields{
		"text":        {Type: graphql.NewNonNull(graphql.String)},
		"textSet":     {Type: graphql.NewNonNull(graphql.Boolean)},
		"suggestable": {Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

type filterArgs struct {
	Filter []types.Filter
	Index  int
}

type operatorArgs struct {
	Filter   []types.Filter
	Index    int
	Operator string
}

type valueArgs struct {
	Filter []types.Filter
	Index  int
	Value  string
}

type suggestionArgs struct {
	Column string
	Op     string
	Prefix string
}

type rowsArgs struct {
	Filter []types.Filter
	Limit  int
}

// SchemaGenerator builds the GraphQL schema for a single dataset.
type SchemaGenerator struct {
	dbClient   *db.Db
	schema     *db.TableSchema
	controller *filter.Controller
	naming     config.NamingConvention
	suggestLim int
}

func NewSchemaGenerator(dbClient *db.Db, schema *db.TableSchema, cfg config.Config) *SchemaGenerator {
	return &SchemaGenerator{
		dbClient:   dbClient,
		schema:     schema,
		controller: filter.NewController(schema),
		naming:     cfg.Naming(),
		suggestLim: cfg.SuggestionLimit(),
	}
}

func buildType(colType types.ColumnType) graphql.Output {
	switch colType {
	case types.ColumnInteger:
		return graphql.Int
	case types.ColumnFloat:
		return graphql.Float
	case types.ColumnBoolean:
		return graphql.Boolean
	case types.ColumnDate, types.ColumnDatetime:
		return timestamp
	default:
		return graphql.String
	}
}

// buildRowType maps the dataset columns to an output object, with each field
// reading its snake_case column from the scanned row.
func (sg *SchemaGenerator) buildRowType() *graphql.Object {
	fields := graphql.Fields{}
	for name, colType := range sg.schema.Columns() {
		columnName := name
		fields[sg.naming.ToApiField(name)] = &graphql.Field{
			Type: buildType(colType),
			Resolve: func(params graphql.ResolveParams) (interface{}, error) {
				row, ok := params.Source.(map[string]interface{})
				if !ok {
					return nil, nil
				}
				return row[columnName], nil
			},
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   sg.naming.ToApiType(sg.schema.Table()),
		Fields: fields,
	})
}

func (sg *SchemaGenerator) buildQuery() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"columns": {
				Type:    graphql.NewList(columnType),
				Resolve: sg.resolveColumns,
			},
			"operators": {
				Type: graphql.NewList(operatorType),
				Args: graphql.FieldConfigArgument{
					"column": {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: sg.resolveOperators,
			},
			"editor": {
				Type: editorType,
				Args: graphql.FieldConfigArgument{
					"filter": {Type: graphql.NewNonNull(filters)},
					"index":  {Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: sg.resolveEditor,
			},
			"suggestions": {
				Type: graphql.NewList(graphql.String),
				Args: graphql.FieldConfigArgument{
					"column": {Type: graphql.NewNonNull(graphql.String)},
					"op":     {Type: graphql.NewNonNull(graphql.String)},
					"prefix": {Type: graphql.String},
				},
				Resolve: sg.resolveSuggestions,
			},
			"rows": {
				Type: graphql.NewList(sg.buildRowType()),
				Args: graphql.FieldConfigArgument{
					"filter": {Type: filters},
					"limit":  {Type: graphql.Int},
				},
				Resolve: sg.resolveRows,
			},
		},
	})
}

func (sg *SchemaGenerator) buildMutation() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setOperator": {
				Type: patchType,
				Args: graphql.FieldConfigArgument{
					"filter":   {Type: graphql.NewNonNull(filters)},
					"index":    {Type: graphql.NewNonNull(graphql.Int)},
					"operator": {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: sg.resolveSetOperator,
			},
			"setValue": {
				Type: patchType,
				Args: graphql.FieldConfigArgument{
					"filter": {Type: graphql.NewNonNull(filters)},
					"index":  {Type: graphql.NewNonNull(graphql.Int)},
					"value":  {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: sg.resolveSetValue,
			},
		},
	})
}

// BuildSchema builds the GraphQL schema for the dataset's filter editing
// surface.
func (sg *SchemaGenerator) BuildSchema() (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    sg.buildQuery(),
		Mutation: sg.buildMutation(),
	})
}

func decodeArgs(args map[string]interface{}, out interface{}) error {
	return mapstructure.Decode(args, out)
}

// toViewConfig re-keys the incoming filter list to dataset column names and
// re-types number terms on date and datetime columns.
func (sg *SchemaGenerator) toViewConfig(items []types.Filter) (types.ViewConfig, error) {
	config := types.ViewConfig{Filter: make([]types.Filter, len(items))}
	for i, item := range items {
		item.Column = sg.naming.ToDbColumn(item.Column)
		colType, err := sg.schema.ColumnType(item.Column)
		if err != nil {
			return types.ViewConfig{}, err
		}
		item.Term = types.NormalizeTerm(item.Term, colType)
		config.Filter[i] = item
	}
	return config, nil
}

// patchFilters maps a controller patch back to API field names. Nil stays
// nil so the "applied" flag and the filter field agree.
func (sg *SchemaGenerator) patchFilters(patch *types.ViewConfigUpdate) []types.Filter {
	if patch == nil {
		return nil
	}
	result := make([]types.Filter, len(patch.Filter))
	for i, item := range patch.Filter {
		item.Column = sg.naming.ToApiField(item.Column)
		result[i] = item
	}
	return result
}

func (sg *SchemaGenerator) resolveColumns(params graphql.ResolveParams) (interface{}, error) {
	columns := sg.schema.Columns()
	result := make([]map[string]interface{}, 0, len(columns))
	for name, colType := range columns {
		result = append(result, map[string]interface{}{
			"name": sg.naming.ToApiField(name),
			"type": string(colType),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i]["name"].(string) < result[j]["name"].(string)
	})
	return result, nil
}

func (sg *SchemaGenerator) resolveOperators(params graphql.ResolveParams) (interface{}, error) {
	columnName := sg.naming.ToDbColumn(params.Args["column"].(string))
	colType, err := sg.schema.ColumnType(columnName)
	if err != nil {
		return nil, err
	}

	ops := filter.OperatorsForType(colType)
	result := make([]map[string]interface{}, len(ops))
	for i, op := range ops {
		result[i] = map[string]interface{}{
			"symbol":      string(op),
			"suggestable": filter.IsSuggestable(op, colType),
		}
	}
	return result, nil
}

func (sg *SchemaGenerator) resolveSetOperator(params graphql.ResolveParams) (interface{}, error) {
	var args operatorArgs
	if err := decodeArgs(params.Args, &args); err != nil {
		return nil, err
	}

	viewConfig, err := sg.toViewConfig(args.Filter)
	if err != nil {
		return nil, err
	}
	patch, err := sg.controller.SetOperator(viewConfig, args.Index, types.FilterOp(args.Operator))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"applied": patch != nil,
		"filter":  sg.patchFilters(patch),
	}, nil
}

func (sg *SchemaGenerator) resolveSetValue(params graphql.ResolveParams) (interface{}, error) {
	var args valueArgs
	if err := decodeArgs(params.Args, &args); err != nil {
		return nil, err
	}

	viewConfig, err := sg.toViewConfig(args.Filter)
	if err != nil {
		return nil, err
	}
	patch, err := sg.controller.SetValue(viewConfig, args.Index, args.Value)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"applied": patch != nil,
		"filter":  sg.patchFilters(patch),
	}, nil
}

func (sg *SchemaGenerator) resolveEditor(params graphql.ResolveParams) (interface{}, error) {
	var args filterArgs
	if err := decodeArgs(params.Args, &args); err != nil {
		return nil, err
	}

	viewConfig, err := sg.toViewConfig(args.Filter)
	if err != nil {
		return nil, err
	}
	text, textSet, err := sg.controller.EditText(viewConfig, args.Index)
	if err != nil {
		return nil, err
	}
	suggestable, err := sg.controller.Suggestable(viewConfig, args.Index)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"text":        text,
		"textSet":     textSet,
		"suggestable": suggestable,
	}, nil
}

func (sg *SchemaGenerator) resolveSuggestions(params graphql.ResolveParams) (interface{}, error) {
	var args suggestionArgs
	if err := decodeArgs(params.Args, &args); err != nil {
		return nil, err
	}

	columnName := sg.naming.ToDbColumn(args.Column)
	colType, err := sg.schema.ColumnType(columnName)
	if err != nil {
		return nil, err
	}
	if !filter.IsSuggestable(types.FilterOp(args.Op), colType) {
		return nil, fmt.Errorf("suggestions require an equality filter on a string column")
	}

	return sg.dbClient.Suggest(&db.SuggestInfo{
		Keyspace: sg.schema.Keyspace(),
		Table:    sg.schema.Table(),
		Column:   columnName,
		Prefix:   args.Prefix,
		Limit:    sg.suggestLim,
	}, db.NewQueryOptions())
}

func (sg *SchemaGenerator) resolveRows(params graphql.ResolveParams) (interface{}, error) {
	var args rowsArgs
	if err := decodeArgs(params.Args, &args); err != nil {
		return nil, err
	}

	viewConfig, err := sg.toViewConfig(args.Filter)
	if err != nil {
		return nil, err
	}
	rs, err := sg.dbClient.Select(&db.SelectInfo{
		Keyspace: sg.schema.Keyspace(),
		Table:    sg.schema.Table(),
		Where:    viewConfig.Filter,
		Limit:    args.Limit,
	}, db.NewQueryOptions())
	if err != nil {
		return nil, err
	}
	return rs.Values(), nil
}
