// Package repository implements SQL data access for the clinic core.
// It defines sentinel error values reused across repositories so
// higher layers can distinguish failure scenarios. For example,
// ErrDuplicate signals that an insert hit a uniqueness constraint
// (e.g. closing a cash date twice), while ErrNotFound reports a
// lookup that matched no row.
package repository

import "errors"

// ErrNotFound is returned when a required row does not exist.
// Services translate this into a domain not-found condition.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint, such as creating a second cash closing for the same
// date. Services translate this into a domain conflict.
var ErrDuplicate = errors.New("duplicate")
