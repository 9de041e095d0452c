// Package storage provides the durable string-keyed store shared by the
// session container and the property data container. The two consumers use
// disjoint key namespaces, so no cross-container coordination is required.
package storage

import "errors"

var (
	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("storage: closed")
)

// KeyValueStore is the persistence contract the state containers rely on.
// Set may fail on quota or serialization problems; callers are expected to
// log and absorb such failures rather than propagate them.
type KeyValueStore interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	// Set stores the value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}
