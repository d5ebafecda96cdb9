package domain

import "errors"

// Domain errors as sentinel values
var (
	// ErrStoreUnavailable wraps data store failures that callers may surface as a temporary outage.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrUnknownReferenceKind is returned for reference lists other than brands and categories.
	ErrUnknownReferenceKind = errors.New("unknown reference kind")
)
