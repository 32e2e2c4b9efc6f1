package render

import (
	"context"
	_ "embed"
	"fmt"
	"html"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrymomot/serveindex/core/fsindex"
	"github.com/dmitrymomot/serveindex/core/icons"
)

//go:embed templates/page.html
var defaultPage string

//go:embed templates/style.css
var defaultStyle string

// Default HTML list/item templates. The header row only renders in the
// details view.
const (
	defaultHTMLList = `<ul id="files" class="view-{view}">{header}{items}
</ul>`
	defaultHTMLHeader = `
 <li class="header"><span class="name">Name</span><span class="size">Size</span><span class="date">Modified</span></li>`
	defaultHTMLItem = `
 <li><a href="{path}" class="{classes}" title="{file.name}"><span class="name">{file.name}</span><span class="size">{file.size}</span><span class="date">{file.lastModified}</span></a></li>`
)

// modTimeLayout formats entry modification times for display.
const modTimeLayout = "2006-01-02 15:04"

type htmlRenderer struct {
	opts Options
}

func (r *htmlRenderer) ContentType() string { return MediaHTML }

func (r *htmlRenderer) Render(ctx context.Context, listing *fsindex.Listing) ([]byte, error) {
	style, err := r.stylesheet(listing)
	if err != nil {
		return nil, err
	}

	data := PageData{
		Directory:  displayPath(listing.RequestPath),
		Self:       listing.Self,
		Entries:    listing.Entries,
		Files:      r.fileList(listing),
		Breadcrumb: breadcrumb(listing.RequestPath),
		Style:      style,
	}

	page := r.opts.Page
	if page == nil {
		page = StaticPage(defaultPage)
	}
	return page(ctx, data)
}

// stylesheet loads the configured CSS and, when icons are enabled,
// appends one background-image rule per distinct icon class in the
// listing.
func (r *htmlRenderer) stylesheet(listing *fsindex.Listing) (string, error) {
	css := r.opts.Style
	if css == "" {
		css = defaultStyle
	}
	if r.opts.StyleFile != "" {
		raw, err := os.ReadFile(r.opts.StyleFile)
		if err != nil {
			return "", fmt.Errorf("stylesheet %s: %w", r.opts.StyleFile, err)
		}
		css = string(raw)
	}
	if !r.opts.Icons {
		return css, nil
	}

	var b strings.Builder
	b.WriteString(css)
	seen := make(map[string]bool)
	for _, e := range listing.Entries {
		d := icons.Classify(e.Name, e.IsDir)
		if seen[d.ClassName] {
			continue
		}
		seen[d.ClassName] = true
		uri, err := icons.DataURI(d.Asset)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\n#files .%s { background-image: url(%q); }", d.ClassName, uri)
	}
	return b.String(), nil
}

// fileList renders the listing rows through the list and item templates.
func (r *htmlRenderer) fileList(listing *fsindex.Listing) string {
	view := r.opts.View
	if view == "" {
		view = ViewTiles
	}

	itemTmpl := r.opts.HTML.Item
	if itemTmpl == "" {
		itemTmpl = defaultHTMLItem
	}
	var items strings.Builder
	for _, e := range listing.Entries {
		items.WriteString(expand(itemTmpl, map[string]string{
			"path":              entryHref(listing.RequestPath, e),
			"classes":           r.entryClasses(e),
			"file.name":         html.EscapeString(e.Name),
			"file.size":         html.EscapeString(entrySize(e)),
			"file.lastModified": html.EscapeString(entryDate(e)),
		}))
	}

	header := ""
	if view == ViewDetails {
		header = defaultHTMLHeader
	}

	listTmpl := r.opts.HTML.List
	if listTmpl == "" {
		listTmpl = defaultHTMLList
	}
	return expand(listTmpl, map[string]string{
		"header": header,
		"items":  items.String(),
		"view":   string(view),
	})
}

func (r *htmlRenderer) entryClasses(e fsindex.Entry) string {
	if !r.opts.Icons {
		return ""
	}
	return "icon " + icons.Classify(e.Name, e.IsDir).ClassName
}

// entrySize humanizes the byte count; directories and the parent entry
// render without one.
func entrySize(e fsindex.Entry) string {
	if e.IsDir || e.IsParent() {
		return ""
	}
	return humanize.Bytes(uint64(e.Size))
}

// entryDate formats the modification time; the parent entry renders
// without one.
func entryDate(e fsindex.Entry) string {
	if e.IsParent() {
		return ""
	}
	return e.ModTime.Format(modTimeLayout)
}

// displayPath normalizes the decoded request path for page headings.
func displayPath(requestPath string) string {
	p := path.Clean("/" + strings.ReplaceAll(requestPath, "\\", "/"))
	if p != "/" {
		p += "/"
	}
	return p
}

// pathSegments splits a decoded request path into its segments.
func pathSegments(requestPath string) []string {
	p := path.Clean("/" + strings.ReplaceAll(requestPath, "\\", "/"))
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// breadcrumb renders the linked-path fragment: a chain of anchors whose
// hrefs are cumulative percent-encoded prefixes of the request path.
func breadcrumb(requestPath string) string {
	var b strings.Builder
	b.WriteString(`<a href="/">~</a>`)
	href := ""
	for _, seg := range pathSegments(requestPath) {
		href += "/" + url.PathEscape(seg)
		fmt.Fprintf(&b, ` / <a href="%s/">%s</a>`, href, html.EscapeString(seg))
	}
	return b.String()
}

// entryHref builds the percent-encoded hyperlink for one entry relative
// to the listed directory. Directory links carry a trailing slash.
func entryHref(requestPath string, e fsindex.Entry) string {
	segs := pathSegments(requestPath)
	if e.IsParent() {
		if len(segs) > 0 {
			segs = segs[:len(segs)-1]
		}
	} else {
		segs = append(segs, e.Name)
	}

	var b strings.Builder
	for _, seg := range segs {
		b.WriteString("/")
		b.WriteString(url.PathEscape(seg))
	}
	if b.Len() == 0 {
		return "/"
	}
	if e.IsDir {
		b.WriteString("/")
	}
	return b.String()
}
