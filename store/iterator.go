package store

import (
	"bytes"

	"github.com/iov-one/revshare/errors"
)

// mergeIterator combines cached items with the iterator of the parent
// store, hiding entries that were deleted in the cache and preferring
// cached values over the parent ones.
type mergeIterator struct {
	items     []keyer
	idx       int
	ascending bool

	parent Iterator
	pkey   []byte
	pvalue []byte
	pdone  bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:     items,
		ascending: ascending,
		parent:    parent,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (m *mergeIterator) advanceParent() error {
	key, value, err := m.parent.Next()
	switch {
	case err == nil:
		m.pkey, m.pvalue = key, value
	case errors.ErrIteratorDone.Is(err):
		m.pkey, m.pvalue, m.pdone = nil, nil, true
	default:
		return err
	}
	return nil
}

// Next returns the next visible key value pair.
func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		hasOwn := m.idx < len(m.items)
		if !hasOwn && m.pdone {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merge iterator")
		}

		if !hasOwn {
			key, value = m.pkey, m.pvalue
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		own := m.items[m.idx]
		cmp := -1
		if !m.pdone {
			cmp = bytes.Compare(own.Key(), m.pkey)
			if !m.ascending {
				cmp = -cmp
			}
		}

		if cmp > 0 {
			key, value = m.pkey, m.pvalue
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		// The cached entry shadows the parent one with the same key.
		m.idx++
		if cmp == 0 {
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
		}
		if set, ok := own.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

// Release releases the parent iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.items = nil
}
