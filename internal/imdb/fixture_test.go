package imdb

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// filmKey is a test-local (title, year) pair used to build fixtures;
// internal/record.Film is what production code decodes into.
type filmKey struct {
	title string
	year  int
}

// dataset describes a small actor/film graph to serialize into the
// actor-file and film-file binary formats internal/record decodes, for
// use as an integration fixture against the real mmap-backed facade.
type dataset struct {
	actors      []string            // must already be sorted
	films       []filmKey           // must already be sorted by (title, year)
	actorFilms  map[string][]int    // actor name -> indices into films, in credit order
	filmActors  map[int][]int       // film index -> indices into actors, in cast order
}

func encodeActorRecord(name string, filmByteOffsets []int32) []byte {
	buf := append([]byte(name), 0)
	if len(buf)%2 != 0 {
		buf = append(buf, 0)
	}
	count := uint16(len(filmByteOffsets))
	buf = append(buf, byte(count), byte(count>>8))
	if len(buf)%4 != 0 {
		buf = append(buf, 0, 0)
	}
	for _, off := range filmByteOffsets {
		u := uint32(off)
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return buf
}

func encodeFilmRecord(title string, year int, actorByteOffsets []int32) []byte {
	buf := append([]byte(title), 0)
	buf = append(buf, byte(year-1900))
	if len(buf)%2 != 0 {
		buf = append(buf, 0)
	}
	count := uint16(len(actorByteOffsets))
	buf = append(buf, byte(count), byte(count>>8))
	if len(buf)%4 != 0 {
		buf = append(buf, 0, 0)
	}
	for _, off := range actorByteOffsets {
		u := uint32(off)
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return buf
}

func encodeHeader(recordOffsets []int32) []byte {
	n := uint32(len(recordOffsets))
	buf := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	for _, off := range recordOffsets {
		u := uint32(off)
		buf = append(buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return buf
}

// build serializes the dataset into actor-file and film-file byte
// buffers, cross-linking every record's offset array with the other
// file's absolute byte offsets.
func (d dataset) build(t *testing.T) (actorBytes, filmBytes []byte) {
	t.Helper()

	if !sort.StringsAreSorted(d.actors) {
		t.Fatal("dataset actors must be pre-sorted")
	}

	// First pass: lay out film records (without their cast arrays'
	// cross-file offsets yet — we need actor offsets for that, and vice
	// versa, so we compute each file's record offsets first using
	// placeholder-free single-pass layout, since record size only
	// depends on string lengths and counts, not on the other file.
	filmRecordOffset := make([]int32, len(d.films))
	filmHeaderSize := int32(4 + 4*len(d.films))
	cursor := filmHeaderSize
	for i, f := range d.films {
		filmRecordOffset[i] = cursor
		cursor += int32(len(encodeFilmRecord(f.title, f.year, make([]int32, len(d.filmActors[i])))))
	}

	actorRecordOffset := make([]int32, len(d.actors))
	actorHeaderSize := int32(4 + 4*len(d.actors))
	cursor = actorHeaderSize
	for i, name := range d.actors {
		actorRecordOffset[i] = cursor
		cursor += int32(len(encodeActorRecord(name, make([]int32, len(d.actorFilms[name])))))
	}

	// Second pass: encode records with real cross-file offsets now that
	// both layouts are known.
	var filmRecords []byte
	for i, f := range d.films {
		actorOffs := make([]int32, 0, len(d.filmActors[i]))
		for _, ai := range d.filmActors[i] {
			actorOffs = append(actorOffs, actorRecordOffset[ai])
		}
		filmRecords = append(filmRecords, encodeFilmRecord(f.title, f.year, actorOffs)...)
	}

	var actorRecords []byte
	for _, name := range d.actors {
		filmOffs := make([]int32, 0, len(d.actorFilms[name]))
		for _, fi := range d.actorFilms[name] {
			filmOffs = append(filmOffs, filmRecordOffset[fi])
		}
		actorRecords = append(actorRecords, encodeActorRecord(name, filmOffs)...)
	}

	actorBytes = append(encodeHeader(actorRecordOffset), actorRecords...)
	filmBytes = append(encodeHeader(filmRecordOffset), filmRecords...)
	return actorBytes, filmBytes
}

// write dumps the dataset's two files into dir using the spec's default
// names, and returns their paths.
func (d dataset) write(t *testing.T, dir string) (actorPath, filmPath string) {
	t.Helper()
	actorBytes, filmBytes := d.build(t)
	actorPath = filepath.Join(dir, "actors.data")
	filmPath = filepath.Join(dir, "movies.data")
	if err := os.WriteFile(actorPath, actorBytes, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filmPath, filmBytes, 0o644); err != nil {
		t.Fatal(err)
	}
	return actorPath, filmPath
}

// smallGraph is the fixture most tests share: Kevin Bacon and Tom Hanks
// are one hop apart via Apollo 13; Tom Hanks and Forrest Gump reach no
// one else; Meryl Streep is isolated in Sophie's Choice.
func smallGraph() dataset {
	actors := []string{"Kevin Bacon", "Meryl Streep", "Tom Hanks"}
	films := []filmKey{
		{"Apollo 13", 1995},
		{"Forrest Gump", 1994},
		{"Sophie's Choice", 1982},
	}
	return dataset{
		actors: actors,
		films:  films,
		actorFilms: map[string][]int{
			"Kevin Bacon":  {0},
			"Tom Hanks":    {0, 1},
			"Meryl Streep": {2},
		},
		filmActors: map[int][]int{
			0: {0, 2}, // Apollo 13: Kevin Bacon, Tom Hanks
			1: {2},    // Forrest Gump: Tom Hanks
			2: {1},    // Sophie's Choice: Meryl Streep
		},
	}
}
