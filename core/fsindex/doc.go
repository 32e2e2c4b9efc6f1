// Package fsindex reads a directory and turns it into an ordered listing
// of typed entries.
//
// The lister enumerates child names, applies hidden-file and user filters,
// then fans out per-entry stat calls with bounded concurrency. Entry-level
// failures of a recognized recoverable class (permission, vanished file,
// symlink loop, lock, read-only or full filesystem) degrade to placeholder
// entries carrying the error code instead of failing the whole listing;
// any other failure aborts the request. The resulting order is a pure
// function of the child-name order and the configured comparator, never of
// stat completion timing.
package fsindex
