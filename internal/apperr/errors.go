// Package apperr holds the sentinel errors shared by the loader and the
// surfaces that report load failures.
package apperr

import "errors"

var (
	ErrFileNotFound = errors.New("save file not found")
	ErrTooSmall     = errors.New("save file too small")
	ErrDecompress   = errors.New("decompress failed")
	ErrParse        = errors.New("parse failed")
	ErrUsage        = errors.New("insufficient arguments")
)

// IsLoadError reports whether err is one of the load-time failures caused by
// the save content itself rather than by the environment.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrTooSmall) || errors.Is(err, ErrDecompress) || errors.Is(err, ErrParse)
}
