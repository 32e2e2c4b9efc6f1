// Package pathsafe maps request URL paths onto absolute filesystem paths
// confined to a configured root directory.
//
// The resolver is the security boundary of the listing pipeline: every
// filesystem access downstream operates on a path that has already been
// percent-decoded, normalized, and prefix-checked against the root. The
// traversal check runs on the normalized path only, so encoded separators
// and `..` segments cannot escape the root.
package pathsafe

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformed is returned for request paths that cannot be
	// percent-decoded or that contain an embedded NUL byte.
	ErrMalformed = errors.New("malformed request path")

	// ErrTraversal is returned when the normalized path escapes the root.
	ErrTraversal = errors.New("request path outside root directory")
)

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	// Path is the absolute, cleaned filesystem path. It is guaranteed to
	// be the root itself or a descendant of it.
	Path string

	// RequestPath is the percent-decoded URL path that produced Path.
	RequestPath string

	// HasParent reports whether Path differs from the root, i.e. whether
	// a listing of it should include a ".." entry.
	HasParent bool
}

// Resolver validates request paths against a single root directory.
// The zero value is not usable; construct with New.
type Resolver struct {
	root string
}

// New returns a Resolver rooted at the given directory. The root is made
// absolute and cleaned once at construction time.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute root directory the resolver confines paths to.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve turns a raw URL path into an absolute filesystem path under the
// root. It fails with ErrMalformed on undecodable input or embedded NUL
// bytes, and with ErrTraversal when the normalized result is not contained
// in the root.
func (r *Resolver) Resolve(urlPath string) (Resolved, error) {
	decoded, err := url.PathUnescape(urlPath)
	if err != nil {
		return Resolved{}, ErrMalformed
	}
	if strings.ContainsRune(decoded, '\x00') {
		return Resolved{}, ErrMalformed
	}

	resolved := filepath.Clean(filepath.Join(r.root, filepath.FromSlash(decoded)))

	// Prefix check on the normalized path. The trailing separator keeps
	// sibling directories with a shared prefix (root "/srv/www" vs
	// "/srv/www-old") from passing the check.
	sep := string(filepath.Separator)
	if !strings.HasPrefix(resolved+sep, r.root+sep) {
		return Resolved{}, ErrTraversal
	}

	return Resolved{
		Path:        resolved,
		RequestPath: decoded,
		HasParent:   resolved != r.root,
	}, nil
}
