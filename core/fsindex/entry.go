package fsindex

import (
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// TypeDirectory is the classification assigned to directories. All other
// entries carry a MIME type derived from their extension.
const TypeDirectory = "directory"

// ParentName is the synthetic entry name linking to the parent directory.
const ParentName = ".."

// defaultType is the classification for files whose extension is unknown.
const defaultType = "application/octet-stream"

// extraTypes supplements the stdlib MIME table, which only guarantees a
// small builtin set when the host has no /etc/mime.types. Classification
// must not depend on host configuration.
var extraTypes = map[string]string{
	".avi":   "video/x-msvideo",
	".bz2":   "application/x-bzip2",
	".csv":   "text/csv",
	".doc":   "application/msword",
	".docx":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".flac":  "audio/flac",
	".gz":    "application/gzip",
	".log":   "text/plain",
	".md":    "text/markdown",
	".mkv":   "video/x-matroska",
	".mov":   "video/quicktime",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".ogg":   "audio/ogg",
	".otf":   "font/otf",
	".tar":   "application/x-tar",
	".ttf":   "font/ttf",
	".txt":   "text/plain",
	".wav":   "audio/wav",
	".webm":  "video/webm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".xhtml": "application/xhtml+xml",
	".xz":    "application/x-xz",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".zip":   "application/zip",
}

// EntryError describes a recoverable per-entry stat failure. It is carried
// on the entry itself so custom filter, sort, and template logic can see
// it; it is never surfaced to the requester as an HTTP error.
type EntryError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Entry is one row of a directory listing. Immutable once built.
type Entry struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Size    int64       `json:"size"`
	ModTime time.Time   `json:"mtime"`
	IsDir   bool        `json:"isDir"`
	Err     *EntryError `json:"error,omitempty"`
}

// IsParent reports whether the entry is the synthetic ".." link.
func (e Entry) IsParent() bool {
	return e.Name == ParentName
}

// Listing is the complete result of reading one directory. Built once per
// request and discarded after the response is written.
type Listing struct {
	// RequestPath is the URL-decoded directory path as requested.
	RequestPath string

	// Dir is the absolute filesystem path that was listed.
	Dir string

	// Self is the listed directory's own metadata, used by renderers for
	// the page title, size, and modification time.
	Self Entry

	// Entries holds the ordered rows, parent entry first when present.
	Entries []Entry

	// HasParent reports whether a ".." entry was synthesized.
	HasParent bool
}

// newEntry builds an entry from a successful stat result.
func newEntry(name string, info fs.FileInfo) Entry {
	return Entry{
		Name:    name,
		Type:    Classify(name, info.IsDir()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}
}

// placeholderEntry builds a degraded entry for a child whose metadata
// could not be retrieved. Size is zero and the modification time is the
// Unix epoch.
func placeholderEntry(name, code string, err error) Entry {
	return Entry{
		Name:    name,
		Type:    Classify(name, false),
		Size:    0,
		ModTime: time.Unix(0, 0).UTC(),
		Err:     &EntryError{Code: code, Message: err.Error()},
	}
}

// Classify maps an entry name to its media classification. Directories
// always classify as TypeDirectory regardless of extension; files resolve
// through the extension MIME table with a generic fallback.
func Classify(name string, isDir bool) string {
	if isDir {
		return TypeDirectory
	}
	ext := strings.ToLower(filepath.Ext(name))
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		mt = extraTypes[ext]
	}
	if mt == "" {
		return defaultType
	}
	// Strip parameters such as "; charset=utf-8".
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
