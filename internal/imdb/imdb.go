// Package imdb composes the two mapped files, their sorted-record
// indices, and the record codec into the two primitive graph queries the
// search engine needs: credits(actor) and cast(film).
package imdb

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/s0up4200/go-sixdegrees/internal/dataindex"
	"github.com/s0up4200/go-sixdegrees/internal/mmapfile"
	"github.com/s0up4200/go-sixdegrees/internal/record"
)

// DB is the database facade. It owns both mappings and is good iff both
// opened successfully.
type DB struct {
	actorView mmapfile.View
	filmView  mmapfile.View

	actorIndex dataindex.Index
	filmIndex  dataindex.Index

	rng *rand.Rand
}

// Open maps actorPath and filmPath read-only and builds the two indices
// over them. Open always returns a non-nil *DB, even on partial failure,
// so Close is always safe to call; callers must check Good() before
// issuing queries.
func Open(actorPath, filmPath string) (*DB, error) {
	actorView, actorErr := mmapfile.Open(actorPath)
	filmView, filmErr := mmapfile.Open(filmPath)

	db := &DB{
		actorView: actorView,
		filmView:  filmView,
		rng:       rand.New(rand.NewSource(randSeed())),
	}
	db.actorIndex = dataindex.New(actorView, "actor")
	db.filmIndex = dataindex.New(filmView, "film")

	if actorErr != nil || filmErr != nil {
		// Return the partially-good DB so Close can still release
		// whichever mapping did open, and report the first failure.
		if actorErr != nil {
			return db, fmt.Errorf("imdb: %w", actorErr)
		}
		return db, fmt.Errorf("imdb: %w", filmErr)
	}
	return db, nil
}

// Good reports whether both mappings opened.
func (db *DB) Good() bool {
	return db.actorView.Good() && db.filmView.Good()
}

// Close releases both mappings, on every exit path, even if only one of
// them opened successfully.
func (db *DB) Close() error {
	actorErr := db.actorView.Close()
	filmErr := db.filmView.Close()
	if actorErr != nil {
		return actorErr
	}
	return filmErr
}

// Credits returns the films an actor appeared in, or ok=false if the
// actor is not present in the database.
func (db *DB) Credits(actorName string) ([]record.Film, bool) {
	idx, ok := db.actorIndex.FindByKey(func(off int32) int {
		name, err := record.DecodeActorName(db.actorView, int(off))
		if err != nil {
			log.Printf("imdb: corrupt actor record at offset %d: %v", off, err)
			return 1
		}
		return strings.Compare(name, actorName)
	})
	if !ok {
		return nil, false
	}

	actorOffset := db.actorIndex.IthOffset(idx)
	actor, err := record.DecodeActor(db.actorView, int(actorOffset))
	if err != nil {
		log.Printf("imdb: corrupt actor record at offset %d: %v", actorOffset, err)
		return nil, false
	}

	films := make([]record.Film, 0, len(actor.FilmOffsets))
	for _, off := range actor.FilmOffsets {
		film, err := record.DecodeFilmKey(db.filmView, int(off))
		if err != nil {
			log.Printf("imdb: corrupt film record at offset %d: %v", off, err)
			continue
		}
		films = append(films, film)
	}
	return films, true
}

// Cast returns the actors who appeared in film, or ok=false if the film
// is not present in the database.
func (db *DB) Cast(film record.Film) ([]string, bool) {
	idx, ok := db.filmIndex.FindByKey(func(off int32) int {
		key, err := record.DecodeFilmKey(db.filmView, int(off))
		if err != nil {
			log.Printf("imdb: corrupt film record at offset %d: %v", off, err)
			return 1
		}
		return compareFilms(key, film)
	})
	if !ok {
		return nil, false
	}

	filmOffset := db.filmIndex.IthOffset(idx)
	movie, err := record.DecodeFilm(db.filmView, int(filmOffset))
	if err != nil {
		log.Printf("imdb: corrupt film record at offset %d: %v", filmOffset, err)
		return nil, false
	}

	actors := make([]string, 0, len(movie.ActorOffsets))
	for _, off := range movie.ActorOffsets {
		name, err := record.DecodeActorName(db.actorView, int(off))
		if err != nil {
			log.Printf("imdb: corrupt actor record at offset %d: %v", off, err)
			continue
		}
		actors = append(actors, name)
	}
	return actors, true
}

// RandomPlayer samples a uniformly chosen actor by index. It is a smoke
// test helper, not part of the search path.
func (db *DB) RandomPlayer() (string, bool) {
	total := db.actorIndex.Count()
	if total == 0 {
		return "", false
	}
	i := 1 + db.rng.Intn(total)
	off := db.actorIndex.IthOffset(i)
	name, err := record.DecodeActorName(db.actorView, int(off))
	if err != nil {
		log.Printf("imdb: corrupt actor record at offset %d: %v", off, err)
		return "", false
	}
	return name, true
}

// randSeed seeds RandomPlayer's generator once, at construction, rather
// than on every call — the original implementation reseeded per call and
// then busy-waited a full second so consecutive calls wouldn't collide on
// an identical time(NULL) seed. A single construction-time seed makes the
// busy-wait unnecessary.
func randSeed() int64 {
	return time.Now().UnixNano()
}

func compareFilms(a, b record.Film) int {
	if a.Title != b.Title {
		return strings.Compare(a.Title, b.Title)
	}
	switch {
	case a.Year < b.Year:
		return -1
	case a.Year > b.Year:
		return 1
	default:
		return 0
	}
}
