package render

import (
	"context"
	"encoding/json"

	"github.com/dmitrymomot/serveindex/core/fsindex"
)

type jsonRenderer struct{}

func (r *jsonRenderer) ContentType() string { return MediaJSON }

func (r *jsonRenderer) Render(_ context.Context, listing *fsindex.Listing) ([]byte, error) {
	return json.Marshal(listing.Entries)
}
