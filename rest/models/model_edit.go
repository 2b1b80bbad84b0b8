package models

import (
	"github.com/adminradio/perspective/types"
)

// OperatorUpdate is an operator selection event on the filter at Index.
type OperatorUpdate struct {
	Filter   []types.Filter `json:"filter" validate:"required"`
	Index    int            `json:"index" validate:"gte=0"`
	Operator string         `json:"operator" validate:"required"`
}

// ValueUpdate is a raw keystroke event on the filter at Index. Value is a
// pointer so that an empty field (a deliberate request to clear the
// condition) survives validation.
type ValueUpdate struct {
	Filter []types.Filter `json:"filter" validate:"required"`
	Index  int            `json:"index" validate:"gte=0"`
	Value  *string        `json:"value" validate:"required"`
}

// EditorState asks for the editable text and suggestability of the filter at
// Index, used to populate the value field when it gains focus.
type EditorState struct {
	Filter []types.Filter `json:"filter" validate:"required"`
	Index  int            `json:"index" validate:"gte=0"`
}

// PatchResponse carries the view configuration patch produced by an edit.
// Applied is false when the keystroke was ignored (unparseable numeric
// input) and no patch should reach the configuration owner.
type PatchResponse struct {
	Applied bool                    `json:"applied"`
	Update  *types.ViewConfigUpdate `json:"update,omitempty"`
}

// EditorResponse is the editor state for one filter. TextSet false means the
// editable field should keep its current content.
type EditorResponse struct {
	Text        string `json:"text"`
	TextSet     bool   `json:"textSet"`
	Suggestable bool   `json:"suggestable"`
}

// QueryRequest applies a filter list to the dataset.
type QueryRequest struct {
	Filter []types.Filter `json:"filter" validate:"required"`
	Limit  int            `json:"limit" validate:"gte=0"`
}
