// Command six-degrees is the REPL driver for the actor/film graph
// navigator: it prompts for two actor names and prints a shortest
// alternating path between them, or a not-found message.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"

	"github.com/s0up4200/go-sixdegrees/internal/imdb"
	"github.com/s0up4200/go-sixdegrees/internal/search"
	"github.com/s0up4200/go-sixdegrees/internal/settings"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("six-degrees", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	selfUpdate := fs.Bool("self-update", false, "check for and apply a newer release of this binary")
	maxDepth := fs.Int("max-depth", 6, "maximum number of film-connections to search")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("usage: six-degrees <data-directory>: %w", err)
	}

	if *selfUpdate {
		return runSelfUpdate(context.Background())
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("usage: six-degrees <data-directory>")
	}

	cfg := settings.Default(rest[0])
	cfg.MaxDepth = *maxDepth

	db, err := imdb.Open(filepath.Join(cfg.DataDir, cfg.ActorFileName), filepath.Join(cfg.DataDir, cfg.FilmFileName))
	defer db.Close()
	if err != nil || !db.Good() {
		return errors.New("failed to properly initialize the imdb database.\nPlease check to make sure the source files exist and that you have permission to read them")
	}

	return repl(db, cfg, in, out)
}

func repl(db *imdb.DB, cfg settings.Settings, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		source, ok := promptForActor(scanner, out, db, "Actor or actress")
		if !ok {
			break
		}
		target, ok := promptForActor(scanner, out, db, "Another actor or actress")
		if !ok {
			break
		}

		if source == target {
			fmt.Fprintln(out, "Good one.  This is only interesting if you specify two different people.")
			continue
		}

		p := search.ShortestPath(db, source, target, cfg.MaxDepth)
		if p.Length() > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, p.Render())
			fmt.Fprintln(out)
		} else {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "No path between those two people could be found.")
			fmt.Fprintln(out)
		}
	}

	fmt.Fprintln(out, "Thanks for playing!")
	return nil
}

// promptForActor requests an actor name until the user supplies one
// present in the database, or hits enter to quit.
func promptForActor(scanner *bufio.Scanner, out io.Writer, db *imdb.DB, prompt string) (string, bool) {
	for {
		fmt.Fprintf(out, "%s [or <enter> to quit]: ", prompt)
		if !scanner.Scan() {
			return "", false
		}
		response := scanner.Text()
		if response == "" {
			return "", false
		}
		if _, ok := db.Credits(response); ok {
			return response, true
		}
		fmt.Fprintf(out, "We couldn't find %q in the movie database. Please try again.\n", response)
	}
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	slug := settings.Default("").UpdateSlug
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(slug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s could not be found from github repository", slug)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version: %s\n", latest.Version())
	return nil
}
