package models

// Rows is a page of query results.
type Rows struct {
	Rows      []map[string]interface{} `json:"rows"`
	PageState string                   `json:"pageState,omitempty"`
}

// SuggestionsResponse lists candidate values for a suggestable filter.
type SuggestionsResponse struct {
	Values []string `json:"values"`
}
