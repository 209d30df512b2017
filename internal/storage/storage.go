// Package storage provides the quota-managed key-value layer underneath
// the explorer's persistence. A small KV interface abstracts the actual
// backend (bbolt file for local play, in-memory for remote sessions and
// tests); the Manager on top enforces a byte budget with priority-aware
// cleanup so a full store degrades by shedding caches, never by losing
// the current save.
package storage

import "errors"

// Sentinel errors returned by KV backends.
var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("storage: key not found")

	// ErrQuotaExceeded is returned by Set when the backend itself refuses
	// the write for lack of space.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage: store closed")
)

// KV is a flat string store. Implementations must be safe for concurrent
// use.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores the value, replacing any previous one. Backends with a
	// hard capacity return ErrQuotaExceeded when the write cannot fit.
	Set(key, value string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns every stored key in unspecified order.
	Keys() ([]string, error)

	// Clear removes everything.
	Clear() error

	// Close releases backend resources.
	Close() error
}
