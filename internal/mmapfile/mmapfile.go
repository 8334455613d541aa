// Package mmapfile opens a file read-only and exposes its contents as an
// immutable, bounds-checked byte view backed by the kernel's page cache
// rather than a copy held on the Go heap.
package mmapfile

import (
	"fmt"
	"sync"

	"golang.org/x/exp/mmap"
)

// View is a read-only window onto a memory-mapped file. The zero value is
// the "not-good" sentinel described by the navigator contract: Len is 0
// and every read fails closed.
type View struct {
	reader *mmap.ReaderAt
	length int
	closed *sync.Once
}

// Open maps path into memory read-only. On failure it returns the
// not-good sentinel View alongside the error; callers that only check
// Good() can ignore the error.
func Open(path string) (View, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return View{}, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	return View{reader: r, length: r.Len(), closed: &sync.Once{}}, nil
}

// Good reports whether the mapping opened successfully.
func (v View) Good() bool {
	return v.reader != nil
}

// Len returns the mapped region's length in bytes.
func (v View) Len() int {
	return v.length
}

// ByteAt returns the byte at off, or false if off is outside the mapping.
func (v View) ByteAt(off int) (byte, bool) {
	if !v.Good() || off < 0 || off >= v.length {
		return 0, false
	}
	var b [1]byte
	if n, err := v.reader.ReadAt(b[:], int64(off)); n != 1 || err != nil {
		return 0, false
	}
	return b[0], true
}

// Slice copies n bytes starting at off out of the mapping. It returns
// false if the requested range exits the mapped region, matching the
// corrupt-record policy that bounds violations are reported, not panicked.
func (v View) Slice(off, n int) ([]byte, bool) {
	if !v.Good() || off < 0 || n < 0 || off+n > v.length {
		return nil, false
	}
	buf := make([]byte, n)
	read, err := v.reader.ReadAt(buf, int64(off))
	if read != n || err != nil {
		return nil, false
	}
	return buf, true
}

// Close releases the mapping's OS resources exactly once. It is safe to
// call on the not-good sentinel and safe to call more than once.
func (v View) Close() error {
	if v.reader == nil || v.closed == nil {
		return nil
	}
	var err error
	v.closed.Do(func() {
		err = v.reader.Close()
	})
	return err
}
