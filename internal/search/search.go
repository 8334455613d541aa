// Package search implements the bounded-depth bidirectional-capable
// breadth-first search that finds a shortest alternating actor/film path
// between two actors, reusing the database facade's two primitive
// queries and never visiting an actor or a film more than once.
package search

import (
	"github.com/s0up4200/go-sixdegrees/internal/pathchain"
	"github.com/s0up4200/go-sixdegrees/internal/record"
)

// MaxDepth is the default bound on the number of film-links a path may
// contain before the search gives up.
const MaxDepth = 6

// Queries is the narrow surface the search needs from the database
// facade, letting tests substitute a fixture in place of a real mapping.
type Queries interface {
	Credits(actorName string) ([]record.Film, bool)
	Cast(film record.Film) ([]string, bool)
}

// ShortestPath returns the minimum-link-count path from source to target
// within maxDepth links, or the empty path if none exists. The caller is
// expected to have already rejected source == target.
func ShortestPath(db Queries, source, target string, maxDepth int) pathchain.Path {
	visitedActors := map[string]bool{source: true}
	visitedFilms := map[record.Film]bool{}

	frontier := []pathchain.Path{pathchain.New(source)}

	for depth := 1; depth <= maxDepth; depth++ {
		for _, p := range frontier {
			if p.LastActor() == target {
				return p
			}
		}

		next := make([]pathchain.Path, 0, len(frontier))
		for _, p := range frontier {
			credits, ok := db.Credits(p.LastActor())
			if !ok {
				// Dead end: either the actor is unknown, or — just as
				// legitimately — this frontier entry was reached by
				// expanding a film whose cast member turns out to have
				// no credits of their own. Neither case is an error.
				continue
			}
			for _, film := range credits {
				if visitedFilms[film] {
					continue
				}
				cast, ok := db.Cast(film)
				if !ok {
					continue
				}
				for _, actor := range cast {
					if visitedActors[actor] {
						continue
					}
					visitedActors[actor] = true
					next = append(next, p.Extend(film, actor))
				}
				visitedFilms[film] = true
			}
		}
		frontier = next
	}

	for _, p := range frontier {
		if p.LastActor() == target {
			return p
		}
	}
	return pathchain.Path{}
}
