// Package pathchain represents a chain of actor -> film -> actor links
// anchored at a starting actor, and renders it in the canonical
// human-readable form.
package pathchain

import (
	"fmt"
	"strings"

	"github.com/s0up4200/go-sixdegrees/internal/record"
)

// Link is one film-connection: the film, and the actor reached via it.
type Link struct {
	Film  record.Film
	Actor string
}

// Path is an ordered chain of links anchored at Start. It does not
// validate that consecutive links actually share an actor; that
// discipline belongs to the search that builds the path.
type Path struct {
	Start string
	Links []Link
}

// New returns an empty path anchored at start.
func New(start string) Path {
	return Path{Start: start}
}

// Extend returns a new path with (film, actor) appended. Paths are value
// types: each caller owns its own copy of the link slice, so extending
// one frontier entry never mutates another that shares a prefix.
func (p Path) Extend(film record.Film, actor string) Path {
	links := make([]Link, len(p.Links), len(p.Links)+1)
	copy(links, p.Links)
	links = append(links, Link{Film: film, Actor: actor})
	return Path{Start: p.Start, Links: links}
}

// Pop returns a copy of p with its last link removed. It is a no-op on
// an empty path.
func (p Path) Pop() Path {
	if len(p.Links) == 0 {
		return p
	}
	return Path{Start: p.Start, Links: p.Links[:len(p.Links)-1]}
}

// LastActor returns the most recently reached actor, or the anchor if
// the path has no links yet.
func (p Path) LastActor() string {
	if len(p.Links) == 0 {
		return p.Start
	}
	return p.Links[len(p.Links)-1].Actor
}

// Length returns the number of film-connection links in the path.
func (p Path) Length() int {
	return len(p.Links)
}

// Render produces the canonical multi-line chain:
//
//	\t<start> was in "<title1>" (<year1>) with <a1>.
//	\t<a1> was in "<title2>" (<year2>) with <a2>.
//
// Each line begins with a tab and ends with a period and newline; there
// is no trailing blank line.
func (p Path) Render() string {
	var b strings.Builder
	actor := p.Start
	for _, link := range p.Links {
		fmt.Fprintf(&b, "\t%s was in \"%s\" (%d) with %s.\n", actor, link.Film.Title, link.Film.Year, link.Actor)
		actor = link.Actor
	}
	return b.String()
}
