// Package repository defines sentinel errors shared across the
// per-entity repositories. "Not found" is a valid outcome of a lookup,
// not a failure: handlers translate these values into 404 responses
// while every other error surfaces the underlying store failure.
package repository

import "errors"

// ErrContactNotFound indicates that no contact row matched the lookup.
var ErrContactNotFound = errors.New("contact not found")

// ErrUserNotFound indicates that no user row matched the lookup.
var ErrUserNotFound = errors.New("user not found")
