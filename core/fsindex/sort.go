package fsindex

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultCompare returns the default tie-break comparator:
// case-insensitive, locale-aware name collation. Each call returns an
// independent comparator backed by its own collator, so the result must
// not be shared across goroutines unless externally synchronized.
func DefaultCompare() CompareFunc {
	c := collate.New(language.Und, collate.IgnoreCase)
	return func(a, b Entry) int {
		return c.CompareString(a.Name, b.Name)
	}
}

// sortEntries orders entries in place: parent entry first, then
// directories, then files, with cmp breaking ties inside each group. The
// sort is stable so equal entries keep their enumeration order.
func sortEntries(entries []Entry, cmp CompareFunc) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.IsParent() != b.IsParent() {
			if a.IsParent() {
				return -1
			}
			return 1
		}
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return cmp(a, b)
	})
}
