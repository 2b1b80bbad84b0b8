package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adminradio/perspective/config"
	"github.com/adminradio/perspective/filter"
	"github.com/adminradio/perspective/types"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

// Validate runs struct validation on a request model and flattens the
// validator's error map into a single user readable error.
func Validate(model interface{}) error {
	return translateValidatorError(inputValidator.Struct(model))
}

func translateValidatorError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	translated := validationErrors.Translate(trans)
	vals := make([]string, 0, len(translated))
	for _, value := range translated {
		vals = append(vals, value)
	}
	return errors.New(strings.Join(vals, " "))
}

// APITranslator converts request models into domain values and CQL.
type APITranslator struct {
	Keyspace string `validate:"required"`
	Table    string `validate:"required"`
	Naming   config.NamingConvention
}

// ToViewConfig turns an incoming filter list into a view configuration:
// API field names become dataset column names and number terms on date and
// datetime columns are re-typed as millisecond timestamps. Unknown columns
// propagate as hard errors, they signal an integration bug.
func (a APITranslator) ToViewConfig(filters []types.Filter, schema filter.SchemaSource) (types.ViewConfig, error) {
	config := types.ViewConfig{Filter: make([]types.Filter, len(filters))}
	for i, item := range filters {
		if a.Naming != nil {
			item.Column = a.Naming.ToDbColumn(item.Column)
		}
		columnType, err := schema.ColumnType(item.Column)
		if err != nil {
			return types.ViewConfig{}, err
		}
		item.Term = types.NormalizeTerm(item.Term, columnType)
		config.Filter[i] = item
	}
	return config, nil
}

// ToSelectFromConfig transforms a view configuration into a SELECT statement
// with the conjunction of its filter conditions as the WHERE clause.
func (a APITranslator) ToSelectFromConfig(config types.ViewConfig, limit int) (string, []interface{}, error) {
	if err := Validate(a); err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s.%s", a.Keyspace, a.Table)
	var values []interface{}

	if len(config.Filter) > 0 {
		expression, vals, err := buildExpressionFromFilters(config.Filter)
		if err != nil {
			return "", nil, err
		}
		query += " WHERE " + expression
		values = vals
	}

	if limit > 0 {
		query += " LIMIT ?"
		values = append(values, limit)
	}

	return query, values, nil
}

func buildExpressionFromFilters(filters []types.Filter) (string, []interface{}, error) {
	expression := ""
	var vals []interface{}

	for _, item := range filters {
		if expression != "" {
			expression += " AND "
		}

		switch item.Op {
		case types.OpIsNull:
			expression += item.Column + " IS NULL"
		case types.OpIsNotNull:
			expression += item.Column + " IS NOT NULL"
		case types.OpIn:
			terms := item.Term.Values
			if !item.Term.Array {
				terms = []types.Scalar{item.Term.Scalar}
			}
			placeholder := strings.Repeat("?,", len(terms))
			expression += item.Column + " IN (" + strings.TrimSuffix(placeholder, ",") + ")"
			for _, scalar := range terms {
				vals = append(vals, scalarValue(scalar))
			}
		case types.OpBeginsWith:
			expression += item.Column + " LIKE ?"
			vals = append(vals, item.Term.Scalar.Display()+"%")
		case types.OpContains:
			expression += item.Column + " LIKE ?"
			vals = append(vals, "%"+item.Term.Scalar.Display()+"%")
		case types.OpEndsWith:
			expression += item.Column + " LIKE ?"
			vals = append(vals, "%"+item.Term.Scalar.Display())
		default:
			cqlOp, ok := types.CqlOperators[item.Op]
			if !ok {
				return "", nil, fmt.Errorf("unknown operator %q", item.Op)
			}
			expression += item.Column + " " + cqlOp + " ?"
			vals = append(vals, scalarValue(item.Term.Scalar))
		}
	}

	return expression, vals, nil
}

func scalarValue(scalar types.Scalar) interface{} {
	switch scalar.Kind {
	case types.KindString:
		return scalar.Text
	case types.KindFloat:
		return scalar.Number
	case types.KindDateTime:
		return scalar.Millis
	default:
		return nil
	}
}
