package serveindex

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/dmitrymomot/serveindex/core/fsindex"
	"github.com/dmitrymomot/serveindex/core/negotiate"
	"github.com/dmitrymomot/serveindex/core/pathsafe"
)

// HTTPError represents a structured error response that implements the
// error interface.
type HTTPError struct {
	Status  int    `json:"-"`       // HTTP status code (not in JSON)
	Code    string `json:"code"`    // Machine-readable error code
	Message string `json:"message"` // Human-readable message
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Predefined HTTP errors covering the request-fatal failure classes of
// the listing pipeline. Per-entry recoverable failures never surface
// here; they degrade into placeholder entries instead.
var (
	ErrMalformedRequest = HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "malformed_request",
		Message: http.StatusText(http.StatusBadRequest),
	}

	ErrTraversalAttempt = HTTPError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: http.StatusText(http.StatusForbidden),
	}

	ErrMethodNotAllowed = HTTPError{
		Status:  http.StatusMethodNotAllowed,
		Code:    "method_not_allowed",
		Message: http.StatusText(http.StatusMethodNotAllowed),
	}

	ErrNotAcceptable = HTTPError{
		Status:  http.StatusNotAcceptable,
		Code:    "not_acceptable",
		Message: http.StatusText(http.StatusNotAcceptable),
	}

	ErrRequestPathTooLong = HTTPError{
		Status:  http.StatusRequestURITooLong,
		Code:    "request_path_too_long",
		Message: http.StatusText(http.StatusRequestURITooLong),
	}

	ErrFilesystemFailure = HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "filesystem_failure",
		Message: http.StatusText(http.StatusInternalServerError),
	}
)

// httpErrorFor maps pipeline sentinel errors onto the response taxonomy.
// Unknown errors map to the 500 filesystem-failure class so nothing fails
// silently.
func httpErrorFor(err error) HTTPError {
	switch {
	case errors.Is(err, pathsafe.ErrMalformed):
		return ErrMalformedRequest
	case errors.Is(err, pathsafe.ErrTraversal):
		return ErrTraversalAttempt
	case errors.Is(err, fsindex.ErrNameTooLong):
		return ErrRequestPathTooLong
	case errors.Is(err, negotiate.ErrNotAcceptable):
		return ErrNotAcceptable
	default:
		return ErrFilesystemFailure
	}
}

// declines reports whether err means the middleware should pass the
// request to the next handler instead of responding.
func declines(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fsindex.ErrNotDirectory)
}
