package render

import (
	"context"

	"github.com/dmitrymomot/serveindex/core/fsindex"
)

// Supported media types, in server preference order. This is the offer
// set handed to content negotiation.
const (
	MediaHTML  = "text/html"
	MediaPlain = "text/plain"
	MediaJSON  = "application/json"
)

// Offers lists the supported media types in preference order.
func Offers() []string {
	return []string{MediaHTML, MediaPlain, MediaJSON}
}

// View selects the HTML listing layout.
type View string

const (
	ViewTiles   View = "tiles"
	ViewDetails View = "details"
)

// Options is the immutable rendering configuration shared by all
// renderer variants. The zero value renders with the embedded defaults.
type Options struct {
	// Icons embeds icon CSS classes and data-URI images into HTML
	// output.
	Icons bool

	// View is the HTML layout; empty means ViewTiles.
	View View

	// Style is a literal stylesheet; empty means the embedded default.
	Style string

	// StyleFile is a stylesheet path read per render. When set it takes
	// precedence over Style.
	StyleFile string

	// Page overrides the page template; nil means the embedded default.
	Page PageTemplate

	// HTML overrides the HTML list/item templates.
	HTML TemplateSet

	// Plain overrides the plain-text list/item templates.
	Plain TemplateSet
}

// Renderer turns one listing into a response body. The variants form a
// closed set selected by the negotiated media type.
type Renderer interface {
	// ContentType returns the bare media type of the produced body.
	ContentType() string

	// Render produces the response body for the listing.
	Render(ctx context.Context, listing *fsindex.Listing) ([]byte, error)
}

// For returns the renderer variant for the negotiated media type. The
// second result is false for unsupported types.
func For(mediaType string, opts Options) (Renderer, bool) {
	switch mediaType {
	case MediaHTML:
		return &htmlRenderer{opts: opts}, true
	case MediaPlain:
		return &plainRenderer{opts: opts}, true
	case MediaJSON:
		return &jsonRenderer{}, true
	default:
		return nil, false
	}
}
