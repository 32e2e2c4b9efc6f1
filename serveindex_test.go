package serveindex_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/serveindex"
	"github.com/dmitrymomot/serveindex/core/fsindex"
	"github.com/dmitrymomot/serveindex/core/render"
)

// nextRecorder is the downstream handler; it records whether the
// middleware passed control onward.
type nextRecorder struct {
	called bool
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	n.called = true
	w.WriteHeader(http.StatusTeapot)
}

func newTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), make([]byte, 10), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "nested.txt"), []byte("x"), 0o644))
	return root
}

func serveListing(t *testing.T, root string, req *http.Request, opts ...serveindex.Option) (*httptest.ResponseRecorder, *nextRecorder) {
	t.Helper()
	mw, err := serveindex.New(root, opts...)
	require.NoError(t, err)

	next := &nextRecorder{}
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, req)
	return w, next
}

func TestNewValidatesRoot(t *testing.T) {
	t.Parallel()

	_, err := serveindex.New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = serveindex.New(file)
	assert.Error(t, err)
}

func TestServeHTML(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	w, next := serveListing(t, newTestRoot(t), req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, next.called)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, strconv.Itoa(w.Body.Len()), w.Header().Get("Content-Length"))

	body := w.Body.String()
	assert.Contains(t, body, "a/")
	assert.Contains(t, body, "b.txt")
	assert.NotContains(t, body, ".hidden")
}

func TestServeJSONOrdering(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	w, _ := serveListing(t, newTestRoot(t), req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var entries []fsindex.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	// Directory first, then file, under the default comparator.
	assert.Equal(t, "a", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "b.txt", entries[1].Name)
	assert.EqualValues(t, 10, entries[1].Size)
}

func TestServePlainText(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/plain")
	w, _ := serveListing(t, newTestRoot(t), req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a\nb.txt\n", w.Body.String())
}

func TestServeSubdirectoryHasParentFirst(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/a", nil)
	req.Header.Set("Accept", "text/plain")
	w, _ := serveListing(t, newTestRoot(t), req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "..\nnested.txt\n", w.Body.String())
}

func TestServeHiddenEnabled(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/plain")
	w, _ := serveListing(t, newTestRoot(t), req, serveindex.WithHidden())

	assert.Contains(t, w.Body.String(), ".hidden\n")
}

func TestServeTraversalForbidden(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.URL = &url.URL{Path: "/../../etc", RawPath: "/../../etc"}
	w, next := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, next.called)
}

func TestServeNullByteRejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.URL = &url.URL{Path: "/file\x00", RawPath: "/file%00"}
	w, _ := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeDefersOnMissingPath(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w, next := serveListing(t, newTestRoot(t), req)

	// The middleware writes nothing; the next handler owns the response.
	assert.True(t, next.called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestServeDefersOnFilePath(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/b.txt", nil)
	w, next := serveListing(t, newTestRoot(t), req)

	assert.True(t, next.called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestServeOptions(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w, next := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Allow"))
	assert.Empty(t, w.Body.String())
	assert.False(t, next.called)
}

func TestServeMethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w, _ := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Allow"))
}

func TestServePathTooLong(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/"+strings.Repeat("a", 300), nil)
	w, next := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusRequestURITooLong, w.Code)
	assert.False(t, next.called)
}

func TestServeNotAcceptable(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "image/png")
	w, _ := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusNotAcceptable, w.Code)
}

func TestServeHead(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	req.Header.Set("Accept", "text/html")
	w, _ := serveListing(t, newTestRoot(t), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Length"))
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestServeEscapesScriptFilename(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "<script>.txt"), []byte("x"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	w, _ := serveListing(t, root, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
}

func TestServeDegradedEntryStillListed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "ghost")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	w, _ := serveListing(t, root, req)

	require.Equal(t, http.StatusOK, w.Code)

	var entries []fsindex.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "ghost", entries[0].Name)
	require.NotNil(t, entries[0].Err)
	assert.Equal(t, "ENOENT", entries[0].Err.Code)
	assert.Zero(t, entries[0].Size)
}

func TestServeCustomFilterAndSort(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"one.txt", "two.log", "three.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/plain")
	w, _ := serveListing(t, root, req,
		serveindex.WithFilter(func(name string, _ int, _ []string, _ string) bool {
			return strings.HasSuffix(name, ".txt")
		}),
		serveindex.WithSort(func(a, b fsindex.Entry) int {
			// Reverse lexical order.
			return strings.Compare(b.Name, a.Name)
		}),
	)

	assert.Equal(t, "three.txt\none.txt\n", w.Body.String())
}

func TestServeCustomTemplate(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	w, _ := serveListing(t, newTestRoot(t), req,
		serveindex.WithTemplate("<main>{files}</main>"),
		serveindex.WithTemplates(render.TemplateSet{List: "{items}", Item: "{file.name};"}, render.TemplateSet{}),
	)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<main>a;b.txt;</main>", w.Body.String())
}
