// Package icons resolves directory-listing entries to icon descriptors
// and serves the icon artwork as memoized data URIs.
//
// Resolution walks from most to least specific: exact extension, MIME
// type, MIME suffix ("+json" style), MIME top-level type, default.
// Directories bypass resolution entirely. Asset bytes are embedded in the
// binary and base64-encoded once per asset for the process lifetime; the
// cache is populated idempotently so concurrent first uses need no lock.
package icons

import (
	"embed"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrymomot/serveindex/core/fsindex"
)

//go:embed assets/*.svg
var assetsFS embed.FS

// Descriptor identifies the icon for one entry: the CSS class rendered on
// the row and the embedded asset backing it.
type Descriptor struct {
	ClassName string
	Asset     string
}

// Asset names. Each must exist under assets/.
const (
	assetFolder  = "folder.svg"
	assetFile    = "file.svg"
	assetImage   = "image.svg"
	assetAudio   = "audio.svg"
	assetVideo   = "video.svg"
	assetText    = "text.svg"
	assetCode    = "code.svg"
	assetArchive = "archive.svg"
	assetPDF     = "pdf.svg"
	assetFont    = "font.svg"
	assetData    = "data.svg"
)

// byExtension resolves well-known extensions ahead of MIME lookup.
var byExtension = map[string]string{
	".c":     assetCode,
	".cpp":   assetCode,
	".css":   assetCode,
	".go":    assetCode,
	".h":     assetCode,
	".java":  assetCode,
	".js":    assetCode,
	".py":    assetCode,
	".rb":    assetCode,
	".rs":    assetCode,
	".sh":    assetCode,
	".ts":    assetCode,
	".log":   assetText,
	".md":    assetText,
	".7z":    assetArchive,
	".bz2":   assetArchive,
	".gz":    assetArchive,
	".rar":   assetArchive,
	".tar":   assetArchive,
	".tgz":   assetArchive,
	".xz":    assetArchive,
	".zip":   assetArchive,
	".eot":   assetFont,
	".otf":   assetFont,
	".ttf":   assetFont,
	".woff":  assetFont,
	".woff2": assetFont,
}

// byMIME resolves full MIME types.
var byMIME = map[string]string{
	"application/gzip":         assetArchive,
	"application/json":         assetData,
	"application/pdf":          assetPDF,
	"application/x-tar":        assetArchive,
	"application/xml":          assetData,
	"application/zip":          assetArchive,
	"text/html":                assetCode,
	"text/javascript":          assetCode,
	"application/vnd.ms-excel": assetData,
}

// byMIMESuffix resolves structured-syntax suffixes such as
// "application/geo+json".
var byMIMESuffix = map[string]string{
	"json": assetData,
	"xml":  assetData,
	"zip":  assetArchive,
}

// byMIMEToplevel resolves the MIME top-level type as a last resort before
// the default.
var byMIMEToplevel = map[string]string{
	"audio": assetAudio,
	"font":  assetFont,
	"image": assetImage,
	"text":  assetText,
	"video": assetVideo,
}

// Classify maps an entry name to its icon descriptor. Directories always
// resolve to the folder descriptor.
func Classify(name string, isDir bool) Descriptor {
	if isDir {
		return describe(assetFolder)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if asset, ok := byExtension[ext]; ok {
		return describe(asset)
	}

	mt := fsindex.Classify(name, false)
	if asset, ok := byMIME[mt]; ok {
		return describe(asset)
	}
	if i := strings.LastIndexByte(mt, '+'); i >= 0 {
		if asset, ok := byMIMESuffix[mt[i+1:]]; ok {
			return describe(asset)
		}
	}
	if top, _, ok := strings.Cut(mt, "/"); ok {
		if asset, ok := byMIMEToplevel[top]; ok {
			return describe(asset)
		}
	}
	return describe(assetFile)
}

// describe derives the CSS class from the asset file name.
func describe(asset string) Descriptor {
	return Descriptor{
		ClassName: "icon-" + strings.TrimSuffix(asset, ".svg"),
		Asset:     asset,
	}
}

// dataURIs memoizes asset name to rendered data URI. Assets are static
// and few, so entries live for the process lifetime. Concurrent first-use
// populations converge to identical values.
var dataURIs sync.Map

// DataURI returns the base64 data URI for the named asset, loading and
// encoding it on first use.
func DataURI(asset string) (string, error) {
	if cached, ok := dataURIs.Load(asset); ok {
		return cached.(string), nil
	}
	raw, err := assetsFS.ReadFile("assets/" + asset)
	if err != nil {
		return "", fmt.Errorf("icon asset %s: %w", asset, err)
	}
	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(raw)
	actual, _ := dataURIs.LoadOrStore(asset, uri)
	return actual.(string), nil
}
