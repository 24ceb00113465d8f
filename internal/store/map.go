// Package store implements the key/value table this server sits on top
// of: two from-scratch hash table algorithms (open addressing with linear
// probing, and separate chaining) plus two concurrency wrappers (a single
// coarse mutex, and lock striping), all built to the same small interface
// so the server is agnostic to which combination backs it.
//
// Grounded on original_source/src/store: LinearProbingHashmap.h,
// LinkedListHashmap.h, StripedHashmap.h, CoarseGrainConcurrentMapWrapper.h
// and the abstract Map.h they all implement.
package store

// Map is the shape every table implementation and concurrency wrapper in
// this package satisfies. K must be comparable so the built-in == the
// probing and chaining algorithms rely on for key comparison is always
// available; it is never used as a Go map key itself.
type Map[K comparable, V any] interface {
	// Lookup reports the value stored for key and whether key is present
	// at all. A present key with a zero V (e.g. a nil []byte) is distinct
	// from an absent key: callers must check the bool, not the value.
	Lookup(key K) (V, bool)

	// Insert stores value under key, overwriting any prior value.
	Insert(key K, value V)

	// Remove deletes key if present and reports whether it was present.
	Remove(key K) bool
}
