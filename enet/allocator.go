package enet

import (
	"github.com/sirupsen/logrus"
)

// Callbacks is the engine's general allocator. Every byte of record
// storage the engine obtains or releases goes through this pair, which
// makes allocation behavior observable and replaceable: tests install
// counting or failure-injecting implementations, embedders can back the
// engine with a buffer pool.
type Callbacks struct {
	// Malloc returns a zeroed buffer of the given size, or nil to signal
	// allocation failure. A zero size must return an empty non-nil
	// buffer.
	Malloc func(size int) []byte

	// Free releases a buffer previously produced by Malloc, or a
	// caller-supplied buffer handed back through a record's
	// FreeCallback. Free of a nil buffer is a no-op by convention.
	Free func(buf []byte)
}

// DefaultCallbacks returns the allocator used when none has been
// installed: Malloc is make, Free leaves reclamation to the garbage
// collector.
func DefaultCallbacks() Callbacks {
	return Callbacks{
		Malloc: func(size int) []byte { return make([]byte, size) },
		Free:   func(buf []byte) {},
	}
}

var callbacks = DefaultCallbacks()

// SetCallbacks installs a replacement general allocator. Both functions
// must be non-nil. The engine holds no storage across SetCallbacks
// boundaries on behalf of the caller; records created under one
// allocator must be destroyed before it is swapped out.
func SetCallbacks(cb Callbacks) {
	if cb.Malloc == nil || cb.Free == nil {
		panic("enet: SetCallbacks requires both Malloc and Free")
	}
	logrus.WithField("function", "SetCallbacks").Debug("Installing general allocator callbacks")
	callbacks = cb
}

// Malloc obtains a buffer from the general allocator. It returns nil on
// allocation failure.
func Malloc(size int) []byte {
	return callbacks.Malloc(size)
}

// Free returns a buffer to the general allocator.
func Free(buf []byte) {
	callbacks.Free(buf)
}
