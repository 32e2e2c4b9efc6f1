package fsindex

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default ceiling on simultaneously in-flight
// per-entry stat calls within one listing.
const DefaultConcurrency = 10

// FilterFunc decides whether a child name is included in the listing. It
// receives the name, its index within the visible siblings, the full
// visible sibling list, and the absolute directory being listed.
type FilterFunc func(name string, index int, siblings []string, dir string) bool

// CompareFunc orders two entries, returning a negative number when a
// sorts before b. It only breaks ties within the directory and file
// groups; the parent-first and directories-first rules always apply.
// Comparators are shared across concurrent requests and must be safe for
// concurrent use.
type CompareFunc func(a, b Entry) int

// Lister reads directories into Listings. The zero value lists with
// defaults: hidden files excluded, no user filter, locale-aware name
// ordering, DefaultConcurrency stat workers.
type Lister struct {
	// ShowHidden includes dot-prefixed names when set.
	ShowHidden bool

	// Filter optionally narrows the visible children.
	Filter FilterFunc

	// Compare overrides the default tie-break ordering.
	Compare CompareFunc

	// Concurrency caps in-flight stat calls; zero means
	// DefaultConcurrency.
	Concurrency int

	// Logger receives per-entry degradation events. Nil disables logging.
	Logger *slog.Logger
}

// List produces the listing for dir. The path must already be validated
// by the caller; requestPath and hasParent come from resolution.
//
// Error contract: fs.ErrNotExist and ErrNotDirectory mean the lister
// declines (caller passes control onward); ErrNameTooLong and
// ErrReadFailure are request-fatal.
func (l *Lister) List(ctx context.Context, dir, requestPath string, hasParent bool) (*Listing, error) {
	info, err := os.Stat(dir)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("stat %s: %w", dir, fs.ErrNotExist)
		case isNameTooLong(err):
			return nil, fmt.Errorf("stat %s: %w", dir, ErrNameTooLong)
		default:
			return nil, fmt.Errorf("%w: stat %s: %w", ErrReadFailure, dir, err)
		}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	names, err := readNames(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	if !l.ShowHidden {
		names = withoutHidden(names)
	}
	if l.Filter != nil {
		visible := names
		names = names[:0:0]
		for i, name := range visible {
			if l.Filter(name, i, visible, dir) {
				names = append(names, name)
			}
		}
	}
	if hasParent {
		names = append([]string{ParentName}, names...)
	}

	entries, err := l.statAll(ctx, dir, names)
	if err != nil {
		return nil, err
	}

	cmp := l.Compare
	if cmp == nil {
		// A fresh collator per listing: collators carry internal buffers
		// and are not safe for concurrent use.
		cmp = DefaultCompare()
	}
	sortEntries(entries, cmp)

	return &Listing{
		RequestPath: requestPath,
		Dir:         dir,
		Self:        newEntry(filepath.Base(dir), info),
		Entries:     entries,
		HasParent:   hasParent,
	}, nil
}

// statAll retrieves metadata for every name concurrently, bounded by the
// configured concurrency. Results land at the index of their name, so the
// output order never depends on completion timing.
func (l *Lister) statAll(ctx context.Context, dir string, names []string) ([]Entry, error) {
	entries := make([]Entry, len(names))

	g, ctx := errgroup.WithContext(ctx)
	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				code, recoverable := entryErrorCode(err)
				if !recoverable {
					return fmt.Errorf("%w: stat %s: %w", ErrReadFailure, name, err)
				}
				if l.Logger != nil {
					l.Logger.DebugContext(ctx, "degraded listing entry",
						slog.String("dir", dir),
						slog.String("name", name),
						slog.String("code", code),
					)
				}
				entries[i] = placeholderEntry(name, code, err)
				return nil
			}
			entries[i] = newEntry(name, info)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// readNames returns the directory's immediate child names, metadata-free.
func readNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func withoutHidden(names []string) []string {
	visible := names[:0:0]
	for _, name := range names {
		if !strings.HasPrefix(name, ".") {
			visible = append(visible, name)
		}
	}
	return visible
}
