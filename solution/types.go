// Package solution - shared sentinels and defaults.
package solution

import "errors"

// ErrInconsistent reports that a structural self-check failed. It is only
// returned by Validate, which exists for tests and debugging.
var ErrInconsistent = errors.New("solution: inconsistent state")

const (
	// DummyVertex terminates customer linked lists.
	DummyVertex = -1

	// DummyRoute is the "no route" sentinel. Real route indices start at 1.
	DummyRoute = 0

	// DefaultCacheSize bounds the SVC when no explicit size is given.
	DefaultCacheSize = 50
)
