package models

// ModelError is the error body returned by every REST handler.
type ModelError struct {
	Description string `json:"description"`
}
