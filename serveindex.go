// Package serveindex provides net/http middleware that renders directory
// listings for requested filesystem paths.
//
// The middleware composes with an upstream static-file handler: requests
// that resolve to a directory are answered with a listing negotiated
// among HTML, plain text, and JSON; anything else (files, missing paths)
// is passed to the next handler untouched. Traversal-unsafe paths are
// rejected before any filesystem access beyond the initial stat.
//
// Basic usage with chi:
//
//	index, err := serveindex.New("./public",
//		serveindex.WithIcons(),
//		serveindex.WithView(render.ViewDetails),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Use(index)
//	r.Handle("/*", http.FileServer(http.Dir("./public")))
package serveindex

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/dmitrymomot/serveindex/core/fsindex"
	"github.com/dmitrymomot/serveindex/core/negotiate"
	"github.com/dmitrymomot/serveindex/core/pathsafe"
	"github.com/dmitrymomot/serveindex/core/render"
)

// allowedMethods is the Allow header value for OPTIONS probes and 405
// responses.
const allowedMethods = "GET, HEAD, OPTIONS"

// New creates the directory-listing middleware rooted at the given
// directory. It fails fast when the root does not exist or is not a
// directory.
func New(root string, opts ...Option) (func(http.Handler) http.Handler, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	resolver, err := pathsafe.New(root)
	if err != nil {
		return nil, fmt.Errorf("serveindex: invalid root %q: %w", root, err)
	}

	info, err := os.Stat(resolver.Root())
	if err != nil {
		return nil, fmt.Errorf("serveindex: root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("serveindex: root %q is not a directory", root)
	}

	h := &handler{
		resolver: resolver,
		lister: &fsindex.Lister{
			ShowHidden:  cfg.hidden,
			Filter:      cfg.filter,
			Compare:     cfg.compare,
			Concurrency: cfg.concurrency,
			Logger:      cfg.logger,
		},
		renderOpts: cfg.renderOpts,
		logger:     cfg.logger,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.serve(w, r, next)
		})
	}, nil
}

// handler carries the per-middleware state shared by all requests.
type handler struct {
	resolver   *pathsafe.Resolver
	lister     *fsindex.Lister
	renderOpts render.Options
	logger     *slog.Logger
}

// serve drives one request through the pipeline: method check, path
// resolution, listing, negotiation, rendering.
func (h *handler) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		w.Header().Set("Allow", allowedMethods)
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
		return
	default:
		w.Header().Set("Allow", allowedMethods)
		h.writeError(w, r, ErrMethodNotAllowed)
		return
	}

	resolved, err := h.resolver.Resolve(r.URL.EscapedPath())
	if err != nil {
		h.writeError(w, r, httpErrorFor(err))
		return
	}

	listing, err := h.lister.List(r.Context(), resolved.Path, resolved.RequestPath, resolved.HasParent)
	if err != nil {
		if declines(err) {
			// Not a directory or nothing there: someone else's request.
			next.ServeHTTP(w, r)
			return
		}
		h.logError(r, err)
		h.writeError(w, r, httpErrorFor(err))
		return
	}

	mediaType, err := negotiate.Negotiate(r.Header.Get("Accept"), render.Offers()...)
	if err != nil {
		h.writeError(w, r, httpErrorFor(err))
		return
	}

	renderer, ok := render.For(mediaType, h.renderOpts)
	if !ok {
		h.writeError(w, r, ErrNotAcceptable)
		return
	}

	body, err := renderer.Render(r.Context(), listing)
	if err != nil {
		h.logError(r, err)
		h.writeError(w, r, ErrFilesystemFailure)
		return
	}

	w.Header().Set("Content-Type", mediaType+"; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// writeError emits a small plain-text error response.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, httpErr HTTPError) {
	body := httpErr.Message + "\n"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpErr.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(body))
	}
}

func (h *handler) logError(r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "directory listing failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
}
