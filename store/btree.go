package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse by all
// caches created from the same root.
const DefaultFreeListSize = btree.DefaultFreeListSize

// btreeDegree keeps nodes small, as a cache rarely holds more than the
// writes of a single transaction.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a btree based CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that writes to the wrapped store only when
// Write is called.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in memory store without persistence, useful for
// tests.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser returns an ordered list of all operations performed
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in memory store together with a view of every
// write operation that reached it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap keeps uncommitted writes in a btree on top of a read only
// store. Writes are also collected in a batch that is applied by Write.
//
// A cache wrap is a savepoint: everything written can be dropped with
// Discard, leaving the parent store untouched.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache reading through to kv. All writes
// are forwarded to batch, so kv itself is never modified by the cache.
// A nil free list allocates a new one, pass an existing one to share
// nodes between nested caches.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap nests another cache that writes into this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all cached writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached writes and returns the nodes to the free list.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
}

// Set caches the value and queues it for Write.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete caches a tombstone for the key and queues the delete for Write.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, deleted: true})
	return b.batch.Delete(key)
}

// cached returns the item written to this cache for the key, if any.
func (b BTreeCacheWrap) cached(key []byte) (cacheItem, bool) {
	res := b.bt.Get(cacheItem{key: key})
	if res == nil {
		return cacheItem{}, false
	}
	return res.(cacheItem), true
}

// Get prefers the cached value and falls back to the parent store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if it, ok := b.cached(key); ok {
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.back.Get(key)
}

// Has prefers the cached state and falls back to the parent store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if it, ok := b.cached(key); ok {
		return !it.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator returns keys in [start, end) in ascending order, merging cached
// writes with the parent store. A nil bound is open.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ascendBtree(b.bt, start, end).wrap(parentIter)
}

// ReverseIterator returns keys in [start, end) in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return descendBtree(b.bt, start, end).wrap(parentIter)
}

// cacheItem is a single cached write. A deleted item is a tombstone hiding
// the parent value. Items are ordered by key only, so a bare key works as a
// lookup pivot.
type cacheItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheItem{}

// Less orders items by key.
func (c cacheItem) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cacheItem).key) < 0
}
