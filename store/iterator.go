package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/disburse/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// btreeIter holds a snapshot of all btree items in the requested range,
// ordered in the direction of iteration. Taking a snapshot keeps iteration
// synchronous, so closing an iterator never races with later writes.
type btreeIter struct {
	items   []cacheItem
	idx     int
	reverse bool
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// collectRange returns all cached items in [start, end), ascending.
func collectRange(bt *btree.BTree, start, end []byte) []cacheItem {
	var items []cacheItem
	insert := func(item btree.Item) bool {
		items = append(items, item.(cacheItem))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(cacheItem{key: end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(cacheItem{key: start}, insert)
	default:
		bt.AscendRange(cacheItem{key: start}, cacheItem{key: end}, insert)
	}
	return items
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	return &btreeIter{items: collectRange(bt, start, end)}
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	items := collectRange(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return &btreeIter{items: items, reverse: true}
}

// wrap combines our results with those of the parent,
// taking into consideration overwrites and deletes.
func (b *btreeIter) wrap(parent Iterator) (Iterator, error) {
	iter := &itemIter{
		wrap:   b,
		parent: parent,
	}
	if err := iter.skipAllDeleted(); err != nil {
		iter.Close()
		return nil, err
	}
	return iter, nil
}

func (b *btreeIter) next() {
	b.idx++
}

func (b *btreeIter) close() {
	b.items = nil
	b.idx = 0
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() cacheItem {
	return b.items[b.idx]
}

func (b *btreeIter) valid() bool {
	return b.idx < len(b.items)
}

type itemIter struct {
	wrap *btreeIter
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent Iterator
}

//------- public facing interface ------
var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.wrap.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *itemIter) Next() error {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.wrap.next()
	case both:
		i.wrap.next()
		fallthrough
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		return errors.ErrIteratorDone
	}

	// keep advancing over all deleted entries
	return i.skipAllDeleted()
}

// Key returns the key of the cursor.
// If Valid returns false, this method will panic.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().key
	case parent:
		return i.parent.Key()
	default: //none
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
// If Valid returns false, this method will panic.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().value
	case parent:
		return i.parent.Value()
	default: // none
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.wrap.close()
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() error {
	for {
		more, err := i.skipDeleted()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// skipDeleted jumps over all elements we can safely fast forward
// return true if skipped, so we can skip again
func (i *itemIter) skipDeleted() (bool, error) {
	src := i.firstKey()
	if src != us && src != both {
		return false, nil
	}
	// if our next is deleted, advance...
	if !i.wrap.get().deleted {
		return false, nil
	}
	i.wrap.next()
	// if parent had the same key, advance parent as well
	if src == both {
		if err := i.parent.Next(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// firstKey selects the iterator that holds the next key in the order of
// iteration, if any
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parent.Key(), i.wrap.get().key)
	if i.wrap.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
