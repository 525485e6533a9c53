// Package services defines the business logic over the word store. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

var (
	// ErrWordNotFound indicates a read against an empty words table,
	// e.g. a random pick before the first pipeline run has stored anything.
	ErrWordNotFound = errors.New("no words found")
)
