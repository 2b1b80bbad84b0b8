package models

// Column describes one dataset column: the API field name used on the wire
// and the declared column type that drives the legal operator set.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
