package store

// DefaultCapacity is the starting slot count for a freshly built table,
// matching the original's DEFAULT_CAPACITY.
const DefaultCapacity = 16

type linearState byte

const (
	linearEmpty linearState = iota
	linearDeleted
	linearElement
)

type linearEntry[K comparable, V any] struct {
	state linearState
	key   K
	value V
}

// LinearProbingMap is an open-addressing hash table: collisions are
// resolved by scanning forward through the slot array rather than
// chaining. Deleted slots are marked as tombstones so lookups that probed
// past them before the delete still find keys placed further along the
// same chain; an insertion that lands on a tombstone before reaching an
// empty slot reclaims it immediately.
//
// Grounded on original_source/src/store/LinearProbingHashmap.h, translated
// from std::vector<Entry> + std::optional fields to a Go slice of a
// three-state struct (no pointer-per-slot, one fewer allocation layer).
type LinearProbingMap[K comparable, V any] struct {
	hash       Hash[K]
	loadFactor float64
	entries    []linearEntry[K, V]
	size       int
}

// NewLinearProbingMap builds an empty table with the given load factor,
// hash function, and initial capacity (at least 1; DefaultCapacity if 0).
func NewLinearProbingMap[K comparable, V any](loadFactor float64, hash Hash[K], initialCapacity int) *LinearProbingMap[K, V] {
	if initialCapacity <= 0 {
		initialCapacity = DefaultCapacity
	}
	return &LinearProbingMap[K, V]{
		hash:       hash,
		loadFactor: loadFactor,
		entries:    make([]linearEntry[K, V], initialCapacity),
	}
}

// Lookup implements Map.
func (m *LinearProbingMap[K, V]) Lookup(key K) (V, bool) {
	idx := m.internalFind(key)
	if idx == -1 {
		var zero V
		return zero, false
	}
	return m.entries[idx].value, true
}

// Insert implements Map. Size is incremented only on a genuine new key,
// not when overwriting an existing one, so the load factor tracks the
// number of distinct keys rather than the number of writes.
func (m *LinearProbingMap[K, V]) Insert(key K, value V) {
	grew := m.insertWithoutResizeCheck(key, value)
	if grew {
		m.size++
		if float64(m.size) > m.loadFactor*float64(len(m.entries)) {
			m.resize()
		}
	}
}

// Remove implements Map.
func (m *LinearProbingMap[K, V]) Remove(key K) bool {
	idx := m.internalFind(key)
	if idx == -1 {
		return false
	}
	var zero V
	m.entries[idx].state = linearDeleted
	m.entries[idx].value = zero
	m.size--
	return true
}

// insertWithoutResizeCheck writes key/value into its probe chain and
// reports whether this was a new key (true) or an overwrite (false).
func (m *LinearProbingMap[K, V]) insertWithoutResizeCheck(key K, value V) bool {
	if idx := m.internalFind(key); idx != -1 {
		m.entries[idx].value = value
		return false
	}
	n := len(m.entries)
	idx := int(m.hash(key) % uint64(n))
	for m.entries[idx].state == linearElement && m.entries[idx].key != key {
		idx = (idx + 1) % n
	}
	isNew := m.entries[idx].state != linearElement
	m.entries[idx] = linearEntry[K, V]{state: linearElement, key: key, value: value}
	return isNew
}

func (m *LinearProbingMap[K, V]) resize() {
	old := m.entries
	newCap := len(old) * 2
	if newCap < 2 {
		newCap = 2
	}
	m.entries = make([]linearEntry[K, V], newCap)
	for _, e := range old {
		if e.state != linearElement {
			continue
		}
		m.insertWithoutResizeCheck(e.key, e.value)
	}
}

// internalFind returns the slot index holding key, or -1 if absent. It
// walks through tombstones and mismatched occupied slots until it either
// finds key, hits an empty slot, or wraps all the way back around.
func (m *LinearProbingMap[K, V]) internalFind(key K) int {
	n := len(m.entries)
	idx := int(m.hash(key) % uint64(n))
	start := idx
	for m.entries[idx].state == linearDeleted ||
		(m.entries[idx].state == linearElement && m.entries[idx].key != key) {
		idx = (idx + 1) % n
		if idx == start {
			return -1
		}
	}
	if m.entries[idx].state == linearElement {
		return idx
	}
	return -1
}
