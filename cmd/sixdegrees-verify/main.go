// Command sixdegrees-verify is a diagnostic tool for a pair of
// actors.data/movies.data files: it opens them directly through the
// facade and checks the invariants the navigator assumes but never
// checks on its own — the sort order of each index, and the
// bidirectional consistency between an actor's credits and a film's
// cast. It never writes to the files it reads.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/s0up4200/go-sixdegrees/internal/dataindex"
	"github.com/s0up4200/go-sixdegrees/internal/imdb"
	"github.com/s0up4200/go-sixdegrees/internal/mmapfile"
	"github.com/s0up4200/go-sixdegrees/internal/record"
	"github.com/s0up4200/go-sixdegrees/internal/settings"
	"github.com/s0up4200/go-sixdegrees/internal/util"
)

func main() {
	dataDir := flag.String("data", "", "path to the directory containing actors.data and movies.data")
	full := flag.Bool("full", false, "exhaustively check bidirectional consistency instead of sampling")
	sampleSize := flag.Int("sample", 200, "number of actors/films to sample when -full is not set")
	flag.Parse()

	if *dataDir == "" {
		log.Fatal("-data is required")
	}

	ok, err := verify(*dataDir, *full, *sampleSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func verify(dataDir string, full bool, sampleSize int) (bool, error) {
	cfg := settings.Default(dataDir)

	db, err := imdb.Open(filepath.Join(cfg.DataDir, cfg.ActorFileName), filepath.Join(cfg.DataDir, cfg.FilmFileName))
	defer db.Close()
	if err != nil || !db.Good() {
		return false, fmt.Errorf("could not open database: %w", err)
	}

	actorView, err := mmapfile.Open(filepath.Join(cfg.DataDir, cfg.ActorFileName))
	if err != nil {
		return false, err
	}
	defer actorView.Close()
	filmView, err := mmapfile.Open(filepath.Join(cfg.DataDir, cfg.FilmFileName))
	if err != nil {
		return false, err
	}
	defer filmView.Close()

	actorIndex := dataindex.New(actorView, "actor")
	filmIndex := dataindex.New(filmView, "film")

	fmt.Printf("actors.data: %s records, %s\n",
		util.FormatNumber(int64(actorIndex.Count())), util.FormatFileSize(float64(actorView.Len()), true))
	fmt.Printf("movies.data: %s records, %s\n",
		util.FormatNumber(int64(filmIndex.Count())), util.FormatFileSize(float64(filmView.Len()), true))

	ok := true
	if !checkActorSort(actorView, actorIndex) {
		ok = false
	}
	if !checkFilmSort(filmView, filmIndex) {
		ok = false
	}
	if !checkBidirectional(db, actorView, actorIndex, filmView, filmIndex, full, sampleSize) {
		ok = false
	}

	if ok {
		fmt.Println("all invariants hold")
	}
	return ok, nil
}

func checkActorSort(view mmapfile.View, idx dataindex.Index) bool {
	prev := ""
	for i := 1; i <= idx.Count(); i++ {
		name, err := record.DecodeActorName(view, int(idx.IthOffset(i)))
		if err != nil {
			log.Printf("verify: actor %d: %v", i, err)
			return false
		}
		if i > 1 && !(prev < name) {
			log.Printf("verify: actor sort invariant violated at index %d: %q is not > %q", i, name, prev)
			return false
		}
		prev = name
	}
	return true
}

func checkFilmSort(view mmapfile.View, idx dataindex.Index) bool {
	var prev record.Film
	for i := 1; i <= idx.Count(); i++ {
		f, err := record.DecodeFilmKey(view, int(idx.IthOffset(i)))
		if err != nil {
			log.Printf("verify: film %d: %v", i, err)
			return false
		}
		if i > 1 && !prev.Less(f) {
			log.Printf("verify: film sort invariant violated at index %d: %+v is not > %+v", i, f, prev)
			return false
		}
		prev = f
	}
	return true
}

func checkBidirectional(db *imdb.DB, actorView mmapfile.View, actorIndex dataindex.Index, filmView mmapfile.View, filmIndex dataindex.Index, full bool, sampleSize int) bool {
	ok := true

	actorStep := stride(actorIndex.Count(), full, sampleSize)
	for i := 1; i <= actorIndex.Count(); i += actorStep {
		name, err := record.DecodeActorName(actorView, int(actorIndex.IthOffset(i)))
		if err != nil {
			continue
		}
		credits, found := db.Credits(name)
		if !found {
			log.Printf("verify: actor %q indexed but Credits lookup failed", name)
			ok = false
			continue
		}
		for _, film := range credits {
			cast, found := db.Cast(film)
			if !found {
				log.Printf("verify: actor %q credits film %q (%d) that has no cast entry", name, film.Title, film.Year)
				ok = false
				continue
			}
			if !contains(cast, name) {
				log.Printf("verify: actor %q credits film %q (%d) but is not in its cast", name, film.Title, film.Year)
				ok = false
			}
		}
	}

	filmStep := stride(filmIndex.Count(), full, sampleSize)
	for i := 1; i <= filmIndex.Count(); i += filmStep {
		f, err := record.DecodeFilmKey(filmView, int(filmIndex.IthOffset(i)))
		if err != nil {
			continue
		}
		cast, found := db.Cast(f)
		if !found {
			continue
		}
		for _, actor := range cast {
			credits, found := db.Credits(actor)
			if !found {
				log.Printf("verify: film %q (%d) casts %q who has no credits entry", f.Title, f.Year, actor)
				ok = false
				continue
			}
			if !containsFilm(credits, f) {
				log.Printf("verify: film %q (%d) casts %q but is not among their credits", f.Title, f.Year, actor)
				ok = false
			}
		}
	}

	return ok
}

func stride(total int, full bool, sampleSize int) int {
	if full || sampleSize <= 0 || total <= sampleSize {
		return 1
	}
	return total / sampleSize
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsFilm(xs []record.Film, x record.Film) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
