package fsindex

import (
	"errors"
	"io/fs"
	"syscall"
)

var (
	// ErrNotDirectory means the resolved path exists but is not a
	// directory. Callers should defer to the next handler, not fail.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNameTooLong means the resolved path exceeds filesystem name
	// limits.
	ErrNameTooLong = errors.New("path name exceeds filesystem limits")

	// ErrReadFailure wraps unexpected stat or read-directory failures.
	ErrReadFailure = errors.New("directory read failed")
)

// entryErrorCode reports whether err belongs to the recoverable entry
// class and, if so, the errno-style code to record on the placeholder
// entry. Unknown codes are deliberately not absorbed: masking them would
// turn real failures into quietly degraded listings.
func entryErrorCode(err error) (string, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES:
			return "EACCES", true
		case syscall.EPERM:
			return "EPERM", true
		case syscall.ENOENT:
			return "ENOENT", true
		case syscall.ELOOP:
			return "ELOOP", true
		case syscall.EBUSY:
			return "EBUSY", true
		case syscall.EAGAIN:
			return "EAGAIN", true
		case syscall.EROFS:
			return "EROFS", true
		case syscall.ENOSPC:
			return "ENOSPC", true
		case syscall.ENAMETOOLONG:
			return "ENAMETOOLONG", true
		}
		return "", false
	}
	// Portable fallbacks for filesystems that do not surface errno.
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "EACCES", true
	case errors.Is(err, fs.ErrNotExist):
		return "ENOENT", true
	}
	return "", false
}

// isNameTooLong reports whether err is the name-too-long errno.
func isNameTooLong(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ENAMETOOLONG
}
