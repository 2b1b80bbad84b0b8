package models

// Operator is one entry of a column's operator picker, in display order.
type Operator struct {
	Symbol      string `json:"symbol"`
	Suggestable bool   `json:"suggestable"`
}

// OperatorsResponse lists the legal operators for a column.
type OperatorsResponse struct {
	Column    string     `json:"column"`
	Type      string     `json:"type"`
	Operators []Operator `json:"operators"`
}
