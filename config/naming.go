package config

import "github.com/iancoleman/strcase"

// NamingConvention maps between the snake_case column names of the dataset
// and the camelCase field names exposed over the API surfaces.
type NamingConvention interface {
	ToDbColumn(fieldName string) string

	ToApiField(columnName string) string

	ToApiType(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() *defaultNaming {
	return &defaultNaming{}
}

func (n *defaultNaming) ToDbColumn(fieldName string) string {
	return strcase.ToSnake(fieldName)
}

func (n *defaultNaming) ToApiField(columnName string) string {
	return strcase.ToLowerCamel(columnName)
}

func (n *defaultNaming) ToApiType(name string) string {
	return strcase.ToCamel(name)
}
