package serveindex

import (
	"log/slog"

	"github.com/dmitrymomot/serveindex/core/fsindex"
	"github.com/dmitrymomot/serveindex/core/render"
)

// config is the immutable middleware configuration snapshot. It is
// captured at construction time and shared read-only by all concurrent
// requests.
type config struct {
	hidden      bool
	filter      fsindex.FilterFunc
	compare     fsindex.CompareFunc
	concurrency int
	renderOpts  render.Options
	logger      *slog.Logger
}

// Option configures the middleware at construction time.
type Option func(*config)

// WithHidden includes dot-prefixed files and directories in listings.
func WithHidden() Option {
	return func(c *config) {
		c.hidden = true
	}
}

// WithFilter narrows the listed entries with a predicate over
// (name, index, siblings, directory). Filter failures propagate to the
// caller as-is.
func WithFilter(filter fsindex.FilterFunc) Option {
	return func(c *config) {
		c.filter = filter
	}
}

// WithSort overrides the tie-break comparator. Parent-first and
// directories-first ordering always applies regardless of the
// comparator. The comparator is shared across concurrent requests and
// must be safe for concurrent use.
func WithSort(compare fsindex.CompareFunc) Option {
	return func(c *config) {
		c.compare = compare
	}
}

// WithConcurrency caps simultaneously in-flight per-entry stat calls.
// Values below one keep the default of fsindex.DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// WithIcons embeds icon CSS classes and data-URI images into HTML
// listings.
func WithIcons() Option {
	return func(c *config) {
		c.renderOpts.Icons = true
	}
}

// WithView selects the HTML listing layout, render.ViewTiles or
// render.ViewDetails.
func WithView(view render.View) Option {
	return func(c *config) {
		c.renderOpts.View = view
	}
}

// WithStylesheet sets a literal CSS stylesheet for HTML listings.
func WithStylesheet(css string) Option {
	return func(c *config) {
		c.renderOpts.Style = css
	}
}

// WithStylesheetFile sets a stylesheet path, read on each render.
func WithStylesheetFile(path string) Option {
	return func(c *config) {
		c.renderOpts.StyleFile = path
	}
}

// WithTemplate sets a literal page template string with the tokens
// {directory}, {files}, {linked-path} and {style}.
func WithTemplate(tmpl string) Option {
	return func(c *config) {
		c.renderOpts.Page = render.StaticPage(tmpl)
	}
}

// WithTemplateFile sets a page template path, read on each render.
func WithTemplateFile(path string) Option {
	return func(c *config) {
		c.renderOpts.Page = render.PageFile(path)
	}
}

// WithTemplateFunc sets a custom page render callback. String templates
// and callbacks are interchangeable: both produce the body from the same
// locals structure.
func WithTemplateFunc(page render.PageTemplate) Option {
	return func(c *config) {
		c.renderOpts.Page = page
	}
}

// WithTemplates overrides the per-format list/item token template sets.
// Zero-valued fields keep the defaults.
func WithTemplates(html, plain render.TemplateSet) Option {
	return func(c *config) {
		c.renderOpts.HTML = html
		c.renderOpts.Plain = plain
	}
}

// WithLogger sets the logger for request-fatal failures and per-entry
// degradation events. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
