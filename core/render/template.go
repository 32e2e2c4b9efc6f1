package render

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/dmitrymomot/serveindex/core/fsindex"
)

// PageData is the locals structure handed to page templates.
type PageData struct {
	// Directory is the URL-decoded directory path being listed.
	Directory string

	// Self is the listed directory's own metadata.
	Self fsindex.Entry

	// Entries holds the ordered listing rows.
	Entries []fsindex.Entry

	// Files is the rendered file-list fragment.
	Files string

	// Breadcrumb is the rendered linked-path fragment.
	Breadcrumb string

	// Style is the stylesheet block contents.
	Style string
}

// PageTemplate produces the full response body from page locals. Literal
// template strings and custom render callbacks both take this shape, so
// downstream code renders through one uniform operation.
type PageTemplate func(ctx context.Context, data PageData) ([]byte, error)

// StaticPage wraps a literal template string into a PageTemplate. The
// string may reference the tokens {directory}, {files}, {linked-path}
// and {style}; the directory token is HTML-escaped.
func StaticPage(tmpl string) PageTemplate {
	return func(_ context.Context, data PageData) ([]byte, error) {
		return []byte(expand(tmpl, map[string]string{
			"directory":   html.EscapeString(data.Directory),
			"files":       data.Files,
			"linked-path": data.Breadcrumb,
			"style":       data.Style,
		})), nil
	}
}

// PageFile wraps a template file path into a PageTemplate. The file is
// read on each render so edits show up without a restart.
func PageFile(path string) PageTemplate {
	return func(ctx context.Context, data PageData) ([]byte, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("page template %s: %w", path, err)
		}
		return StaticPage(string(raw))(ctx, data)
	}
}

// TemplateSet holds the list-level and item-level token templates for one
// representation. Zero values fall back to the representation's defaults.
type TemplateSet struct {
	// List wraps the rendered items; tokens: {header}, {items}, {view}.
	List string

	// Item renders one entry; tokens: {path}, {classes}, {file.name},
	// {file.size}, {file.lastModified}.
	Item string
}

// expand substitutes {token} placeholders. Unknown tokens are left
// untouched.
func expand(tmpl string, tokens map[string]string) string {
	pairs := make([]string, 0, len(tokens)*2)
	for token, value := range tokens {
		pairs = append(pairs, "{"+token+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
