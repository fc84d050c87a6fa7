package tree

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidRoot marks failures caused by a root path that is missing or is not a directory.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrListingDenied marks failures to enumerate a directory during traversal.
	ErrListingDenied = errors.New("directory listing denied")
	// ErrInvalidPattern marks ignore patterns that cannot be compiled.
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)
