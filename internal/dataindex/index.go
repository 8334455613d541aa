// Package dataindex implements the sorted-record index that sits at the
// head of each binary file: a record count followed by that many
// key-sorted absolute byte offsets, enabling binary search by key without
// reading the records themselves except at the probed midpoint.
package dataindex

import (
	"log"
	"sort"
)

// View is the minimal byte-addressable surface this package needs.
type View interface {
	Len() int
	ByteAt(off int) (byte, bool)
	Slice(off, n int) ([]byte, bool)
}

func readI32(v View, off int) (int32, bool) {
	b, ok := v.Slice(off, 4)
	if !ok {
		return 0, false
	}
	u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return int32(u), true
}

// Index is the sorted offset array at the head of one mapped file.
type Index struct {
	view View
	name string
}

// New wraps view as a sorted-record index. name is used only in
// diagnostics (e.g. "actor", "film").
func New(view View, name string) Index {
	return Index{view: view, name: name}
}

// Count returns the 32-bit record count at offset 0.
func (ix Index) Count() int {
	n, ok := readI32(ix.view, 0)
	if !ok {
		return 0
	}
	return int(n)
}

// IthOffset returns the 32-bit record offset at byte offset 4*i, for
// 1 <= i <= Count(). Out-of-range indices log a diagnostic and return 0,
// a harmless sentinel no real record ever starts at.
func (ix Index) IthOffset(i int) int32 {
	total := ix.Count()
	if i < 1 || i > total {
		log.Printf("dataindex: %s index %d out of range [1,%d]", ix.name, i, total)
		return 0
	}
	off, ok := readI32(ix.view, 4*i)
	if !ok {
		log.Printf("dataindex: %s index %d offset read out of range", ix.name, i)
		return 0
	}
	return off
}

// FindByKey binary searches over [1, Count()] using cmp, which must
// compare the key at the record found at the given absolute byte offset
// against the sought key: negative if the record's key is less than the
// sought key, zero if equal, positive if greater. It returns the 1-based
// index of the match, or ok=false on a miss or on a corrupt probe
// (treated as "does not match" rather than aborting the search).
func (ix Index) FindByKey(cmp func(recordOffset int32) int) (index int, ok bool) {
	n := ix.Count()
	i := sort.Search(n, func(i int) bool {
		return cmp(ix.IthOffset(i+1)) >= 0
	})
	if i < n && cmp(ix.IthOffset(i+1)) == 0 {
		return i + 1, true
	}
	return 0, false
}
