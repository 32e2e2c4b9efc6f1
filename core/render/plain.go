package render

import (
	"context"
	"strings"

	"github.com/dmitrymomot/serveindex/core/fsindex"
)

// Default plain-text templates: one name per line, nothing else. Plain
// output is for machine consumption, so it is icon- and view-agnostic and
// applies no escaping.
const (
	defaultPlainList = "{items}"
	defaultPlainItem = "{file.name}\n"
)

type plainRenderer struct {
	opts Options
}

func (r *plainRenderer) ContentType() string { return MediaPlain }

func (r *plainRenderer) Render(_ context.Context, listing *fsindex.Listing) ([]byte, error) {
	itemTmpl := r.opts.Plain.Item
	if itemTmpl == "" {
		itemTmpl = defaultPlainItem
	}

	var items strings.Builder
	for _, e := range listing.Entries {
		items.WriteString(expand(itemTmpl, map[string]string{
			"path":              entryHref(listing.RequestPath, e),
			"file.name":         e.Name,
			"file.size":         entrySize(e),
			"file.lastModified": entryDate(e),
		}))
	}

	listTmpl := r.opts.Plain.List
	if listTmpl == "" {
		listTmpl = defaultPlainList
	}
	body := expand(listTmpl, map[string]string{
		"items": items.String(),
	})
	return []byte(body), nil
}
