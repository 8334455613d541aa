// Package record decodes actor and film records out of a mapped byte
// view. Every function here is pure and read-only: given a view and an
// absolute byte offset, it either returns a decoded value or reports that
// the record is corrupt (an out-of-range offset, or a string that runs
// past the end of the mapping). Nothing in this package knows about
// search, indices, or the two-file database shape above it.
package record

import "fmt"

// View is the minimal byte-addressable surface this package needs from a
// mapping. internal/mmapfile.View satisfies it.
type View interface {
	Len() int
	ByteAt(off int) (byte, bool)
	Slice(off, n int) ([]byte, bool)
}

// ErrCorrupt reports a record that could not be decoded because a
// computed offset or string scan exited the mapping's byte range.
type ErrCorrupt struct {
	Offset int
	Reason string
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("record: corrupt record at offset %d: %s", e.Offset, e.Reason)
}

// Film is the (title, year) pair. Two films are equal iff both fields
// match.
type Film struct {
	Title string
	Year  int
}

// Less orders films lexicographically on title then numerically on year.
func (f Film) Less(other Film) bool {
	if f.Title != other.Title {
		return f.Title < other.Title
	}
	return f.Year < other.Year
}

// ReadU16 reads a little-endian 16-bit integer at off.
func ReadU16(v View, off int) (uint16, bool) {
	b, ok := v.Slice(off, 2)
	if !ok {
		return 0, false
	}
	return uint16(b[0]) | uint16(b[1])<<8, true
}

// ReadI32 reads a little-endian 32-bit integer at off.
func ReadI32(v View, off int) (int32, bool) {
	b, ok := v.Slice(off, 4)
	if !ok {
		return 0, false
	}
	u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return int32(u), true
}

// ReadNulTerminatedString returns the text starting at off, up to but not
// including the first zero byte. It fails if the scan runs past the end
// of the view.
func ReadNulTerminatedString(v View, off int) (string, bool) {
	n := v.Len()
	end := off
	for {
		if end >= n {
			return "", false
		}
		b, ok := v.ByteAt(end)
		if !ok {
			return "", false
		}
		if b == 0 {
			break
		}
		end++
	}
	s, ok := v.Slice(off, end-off)
	if !ok {
		return "", false
	}
	return string(s), true
}

// PadToEven returns off if off is already even, else off+1. It is used to
// align a 16-bit count field that follows a name's null terminator.
func PadToEven(off int) int {
	if off%2 == 0 {
		return off
	}
	return off + 1
}

// AlignedTo4 returns off if off is already 4-byte aligned, else off+2 —
// the spec's alignment rule never needs more than two padding bytes
// because the preceding 16-bit count field always leaves off 2-aligned.
func AlignedTo4(off int) int {
	if off%4 == 0 {
		return off
	}
	return off + 2
}

// PaddedNameEnd computes the first even-byte position at or after the
// null terminator of the name starting at off (actor records).
func PaddedNameEnd(v View, off int) (int, bool) {
	name, ok := ReadNulTerminatedString(v, off)
	if !ok {
		return 0, false
	}
	return PadToEven(off + len(name) + 1), true
}

// PaddedTitleYearEnd computes the first even-byte position at or after
// the year byte that follows the title's null terminator (film records).
func PaddedTitleYearEnd(v View, off int) (int, bool) {
	title, ok := ReadNulTerminatedString(v, off)
	if !ok {
		return 0, false
	}
	return PadToEven(off + len(title) + 1 + 1), true
}

// Actor is a decoded actor record: the name and the offsets of the films
// in the film file that the actor appeared in.
type Actor struct {
	Name        string
	FilmOffsets []int32
}

// DecodeActor decodes the actor record at offset R in the actor view.
func DecodeActor(v View, r int) (Actor, error) {
	name, ok := ReadNulTerminatedString(v, r)
	if !ok {
		return Actor{}, &ErrCorrupt{Offset: r, Reason: "unterminated actor name"}
	}
	c := PadToEven(r + len(name) + 1)
	count, ok := ReadU16(v, c)
	if !ok {
		return Actor{}, &ErrCorrupt{Offset: r, Reason: "actor film count out of range"}
	}
	a := AlignedTo4(c + 2)
	offsets, err := readOffsetArray(v, a, int(count))
	if err != nil {
		return Actor{}, &ErrCorrupt{Offset: r, Reason: err.Error()}
	}
	return Actor{Name: name, FilmOffsets: offsets}, nil
}

// DecodeActorName decodes only the name field of the actor record at
// offset R, skipping the film-offset array entirely. Used by the cast()
// query, which only needs names.
func DecodeActorName(v View, r int) (string, error) {
	name, ok := ReadNulTerminatedString(v, r)
	if !ok {
		return "", &ErrCorrupt{Offset: r, Reason: "unterminated actor name"}
	}
	return name, nil
}

// Movie is a decoded film record: the film itself and the offsets of the
// actors in the actor file that appeared in it.
type Movie struct {
	Film         Film
	ActorOffsets []int32
}

// DecodeFilm decodes the film record at offset R in the film view.
func DecodeFilm(v View, r int) (Movie, error) {
	title, ok := ReadNulTerminatedString(v, r)
	if !ok {
		return Movie{}, &ErrCorrupt{Offset: r, Reason: "unterminated film title"}
	}
	yearOff := r + len(title) + 1
	yearByte, ok := v.ByteAt(yearOff)
	if !ok {
		return Movie{}, &ErrCorrupt{Offset: r, Reason: "year byte out of range"}
	}
	c := PadToEven(yearOff + 1)
	count, ok := ReadU16(v, c)
	if !ok {
		return Movie{}, &ErrCorrupt{Offset: r, Reason: "film cast count out of range"}
	}
	a := AlignedTo4(c + 2)
	offsets, err := readOffsetArray(v, a, int(count))
	if err != nil {
		return Movie{}, &ErrCorrupt{Offset: r, Reason: err.Error()}
	}
	return Movie{Film: Film{Title: title, Year: 1900 + int(yearByte)}, ActorOffsets: offsets}, nil
}

// DecodeFilmKey decodes only the (title, year) key of the film record at
// offset R, without reading its cast-offset array.
func DecodeFilmKey(v View, r int) (Film, error) {
	title, ok := ReadNulTerminatedString(v, r)
	if !ok {
		return Film{}, &ErrCorrupt{Offset: r, Reason: "unterminated film title"}
	}
	yearOff := r + len(title) + 1
	yearByte, ok := v.ByteAt(yearOff)
	if !ok {
		return Film{}, &ErrCorrupt{Offset: r, Reason: "year byte out of range"}
	}
	return Film{Title: title, Year: 1900 + int(yearByte)}, nil
}

func readOffsetArray(v View, at int, count int) ([]int32, error) {
	if count == 0 {
		return nil, nil
	}
	offsets := make([]int32, count)
	for i := 0; i < count; i++ {
		val, ok := ReadI32(v, at+4*i)
		if !ok {
			return nil, fmt.Errorf("offset array entry %d out of range", i)
		}
		offsets[i] = val
	}
	return offsets, nil
}
