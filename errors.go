package renet

import "errors"

// Common errors for packet construction
var (
	// ErrAllocationFailed indicates the engine's allocator could not
	// produce a packet record. The caller's buffer is untouched and
	// remains the caller's to use or discard.
	ErrAllocationFailed = errors.New("packet record allocation failed")
)
