package filter

import (
	"errors"
	"fmt"

	"github.com/adminradio/perspective/types"
)

// ErrColumnNotFound is returned when a filter references a column the schema
// does not know. Filters are created from the schema's own column list, so
// this signals an integration bug, not a runtime condition to recover from.
var ErrColumnNotFound = errors.New("column not found")

// SchemaSource resolves a column name to its declared type.
type SchemaSource interface {
	ColumnType(column string) (types.ColumnType, error)
}

// Controller produces view configuration patches from filter edit events. It
// is stateless between calls: every method is a pure transformation of
// (current config, event) into a patch for the owner of the configuration to
// apply.
type Controller struct {
	schema SchemaSource
}

func NewController(schema SchemaSource) *Controller {
	return &Controller{schema: schema}
}

// SetOperator replaces the operator of the filter at index and emits a full
// replacement patch. The term is left untouched even if it is now
// structurally inconsistent with the new operator (switching away from "in"
// leaves an array term); it is reconciled lazily on the next value edit.
func (c *Controller) SetOperator(config types.ViewConfig, index int, op types.FilterOp) (*types.ViewConfigUpdate, error) {
	filters, err := copyFilters(config, index)
	if err != nil {
		return nil, err
	}
	filters[index].Op = op
	return &types.ViewConfigUpdate{Filter: filters}, nil
}

// SetValue parses raw editable text under the filter's operator and the
// column's declared type, and emits a full replacement patch with the updated
// term. A nil patch with a nil error means the keystroke was ignored: the
// raw text did not parse as a number and the previous term stands.
func (c *Controller) SetValue(config types.ViewConfig, index int, raw string) (*types.ViewConfigUpdate, error) {
	filters, err := copyFilters(config, index)
	if err != nil {
		return nil, err
	}
	item := &filters[index]

	columnType, err := c.schema.ColumnType(item.Column)
	if err != nil {
		return nil, err
	}

	term, ok := Parse(raw, item.Op, columnType)
	if !ok {
		return nil, nil
	}
	item.Term = term
	return &types.ViewConfigUpdate{Filter: filters}, nil
}

// EditText returns the text that should populate the editable field for the
// filter at index. The bool reports whether the field should change at all,
// with the same semantics as Format.
func (c *Controller) EditText(config types.ViewConfig, index int) (string, bool, error) {
	if index < 0 || index >= len(config.Filter) {
		return "", false, indexError(index, len(config.Filter))
	}
	item := config.Filter[index]
	columnType, err := c.schema.ColumnType(item.Column)
	if err != nil {
		return "", false, err
	}
	text, ok := Format(item.Term, columnType)
	return text, ok, nil
}

// Suggestable reports whether the filter at index qualifies for value
// suggestion lookups.
func (c *Controller) Suggestable(config types.ViewConfig, index int) (bool, error) {
	if index < 0 || index >= len(config.Filter) {
		return false, indexError(index, len(config.Filter))
	}
	item := config.Filter[index]
	columnType, err := c.schema.ColumnType(item.Column)
	if err != nil {
		return false, err
	}
	return IsSuggestable(item.Op, columnType), nil
}

func copyFilters(config types.ViewConfig, index int) ([]types.Filter, error) {
	if index < 0 || index >= len(config.Filter) {
		return nil, indexError(index, len(config.Filter))
	}
	filters := make([]types.Filter, len(config.Filter))
	copy(filters, config.Filter)
	return filters, nil
}

func indexError(index int, length int) error {
	return fmt.Errorf("filter index %d out of range (%d filters)", index, length)
}
