package store

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// referenceMap is a trivial Map built on Go's built-in map, used only as
// an oracle: every other implementation in this package must agree with
// it for the same operation sequence.
type referenceMap[K comparable, V any] struct {
	m map[K]V
}

func newReferenceMap[K comparable, V any]() *referenceMap[K, V] {
	return &referenceMap[K, V]{m: make(map[K]V)}
}

func (r *referenceMap[K, V]) Lookup(key K) (V, bool) { v, ok := r.m[key]; return v, ok }
func (r *referenceMap[K, V]) Insert(key K, value V)  { r.m[key] = value }
func (r *referenceMap[K, V]) Remove(key K) bool {
	_, ok := r.m[key]
	delete(r.m, key)
	return ok
}

type op struct {
	kind int // 0 = insert, 1 = lookup, 2 = remove
	key  string
	val  int
}

func randomOps(seed int64, n int) []op {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]string, 12)
	for i := range keys {
		keys[i] = "k" + strconv.Itoa(i)
	}
	ops := make([]op, n)
	for i := range ops {
		ops[i] = op{
			kind: rng.Intn(3),
			key:  keys[rng.Intn(len(keys))],
			val:  rng.Intn(1000),
		}
	}
	return ops
}

func TestMapBehavioralEquivalence(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		ops := randomOps(seed, 300)

		ref := newReferenceMap[string, int]()
		linear := NewLinearProbingMap[string, int](0.75, StringHash, 2)
		chained := NewChainedMap[string, int](0.75, StringHash, 2)
		candidates := map[string]Map[string, int]{
			"linear":  linear,
			"chained": chained,
		}

		for i, o := range ops {
			switch o.kind {
			case 0:
				ref.Insert(o.key, o.val)
				for name, c := range candidates {
					c.Insert(o.key, o.val)
					_ = name
				}
			case 1:
				wantV, wantOK := ref.Lookup(o.key)
				for name, c := range candidates {
					gotV, gotOK := c.Lookup(o.key)
					require.Equal(t, wantOK, gotOK, "seed=%d op=%d impl=%s key=%s", seed, i, name, o.key)
					if wantOK {
						require.Equal(t, wantV, gotV, "seed=%d op=%d impl=%s key=%s", seed, i, name, o.key)
					}
				}
			case 2:
				wantOK := ref.Remove(o.key)
				for name, c := range candidates {
					gotOK := c.Remove(o.key)
					require.Equal(t, wantOK, gotOK, "seed=%d op=%d impl=%s key=%s", seed, i, name, o.key)
				}
			}
		}
	}
}
