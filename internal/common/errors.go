// Package common defines shared constants and sentinel errors used across
// devicekeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Backing store errors.
	ErrConnection  = errors.New("connection error")
	ErrSchemaInit  = errors.New("schema init error")
	ErrPersistence = errors.New("persistence error")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")
)
