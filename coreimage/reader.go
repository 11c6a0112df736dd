// Package coreimage serves bytes at virtual addresses out of a read-only
// memory image (an ELF core dump's PT_LOAD segments, or any other
// pre-mapped byte source). It is the CoreReader of the evaluation core: the
// lowest layer, with no knowledge of C types.
package coreimage

import (
	"bytes"
	"io"
	"sort"

	"github.com/corescope/core/coreerr"
)

// Source is a random-access byte source backing the image, e.g. an *os.File
// opened on a core dump. Reads are side-effect-free and may be issued
// concurrently.
type Source interface {
	io.ReaderAt
}

// Segment describes one contiguous mapped region of the image: the bytes
// at file offset [FileOffset, FileOffset+Length) are visible at virtual
// addresses [VirtualStart, VirtualStart+Length).
type Segment struct {
	VirtualStart uint64
	Length       uint64
	FileOffset   int64
}

func (s Segment) end() uint64 { return s.VirtualStart + s.Length }

// Reader answers byte-range and C-string reads against a Source through a
// sorted list of Segments. It holds no mutable state after construction and
// is safe for concurrent use by multiple goroutines.
type Reader struct {
	src  Source
	segs []Segment

	// truncateOnLimit controls ReadCString's behavior when max_len bytes are
	// read without finding a NUL: when true, the bytes read so far are
	// returned instead of ErrUnterminatedString.
	truncateOnLimit bool
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithTruncatedStrings makes ReadCString return whatever bytes were read
// instead of failing when max_len is reached without a terminating NUL.
func WithTruncatedStrings() Option {
	return func(r *Reader) { r.truncateOnLimit = true }
}

// NewReader builds a Reader over src, given the image's PT_LOAD-style
// segment list. Segments need not be supplied in address order.
func NewReader(src Source, segs []Segment, opts ...Option) *Reader {
	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VirtualStart < sorted[j].VirtualStart })
	r := &Reader{src: src, segs: sorted}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// find bisects the segment list for the one containing addr, returning the
// segment and the offset of addr within it.
func (r *Reader) find(addr uint64) (Segment, uint64, error) {
	i := sort.Search(len(r.segs), func(i int) bool { return r.segs[i].end() > addr })
	if i == len(r.segs) || r.segs[i].VirtualStart > addr {
		return Segment{}, 0, coreerr.New(coreerr.AddressNotMapped, "address %#x is not mapped", addr)
	}
	return r.segs[i], addr - r.segs[i].VirtualStart, nil
}

// Read returns the length bytes at addr. It fails with AddressNotMapped if
// the range straddles segments or is not mapped at all.
func (r *Reader) Read(addr uint64, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	seg, off, err := r.find(addr)
	if err != nil {
		return nil, err
	}
	if off+uint64(length) > seg.Length {
		return nil, coreerr.New(coreerr.AddressNotMapped,
			"range [%#x, %#x) is not entirely mapped by one segment", addr, addr+uint64(length))
	}
	buf := make([]byte, length)
	if _, err := r.src.ReadAt(buf, seg.FileOffset+int64(off)); err != nil {
		return nil, coreerr.Wrap(coreerr.AddressNotMapped, err, "reading %d bytes at %#x", length, addr)
	}
	return buf, nil
}

// ReadCString reads bytes starting at addr up to the first NUL, or up to
// maxLen bytes if no NUL is found. Without WithTruncatedStrings, reaching
// maxLen without a NUL fails with UnterminatedString; with it, the bytes
// read so far (unterminated) are returned.
func (r *Reader) ReadCString(addr uint64, maxLen int) ([]byte, error) {
	seg, off, err := r.find(addr)
	if err != nil {
		return nil, err
	}
	avail := seg.Length - off
	n := maxLen
	if uint64(n) > avail {
		n = int(avail)
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := r.src.ReadAt(buf, seg.FileOffset+int64(off)); err != nil {
			return nil, coreerr.Wrap(coreerr.AddressNotMapped, err, "reading string at %#x", addr)
		}
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return buf[:i], nil
	}
	if !r.truncateOnLimit {
		return nil, coreerr.New(coreerr.UnterminatedString,
			"no NUL found in %d bytes starting at %#x", len(buf), addr)
	}
	return buf, nil
}
