package store

import "github.com/cespare/xxhash/v2"

// Hash computes a table-distribution hash for a key. Both table
// implementations take one as a constructor argument, mirroring the
// original's std::function<size_t(const K&)> injected hash rather than
// requiring a Hashable interface.
type Hash[K any] func(K) uint64

// StringHash is the default Hash for string keys, replacing the original's
// std::hash<std::string> with xxhash — a non-cryptographic hash chosen for
// the same reason the pack reaches for it elsewhere (key sharding in
// l00pss-redkit): fast, well-distributed, no allocation for short keys.
func StringHash(s string) uint64 {
	return xxhash.Sum64String(s)
}
