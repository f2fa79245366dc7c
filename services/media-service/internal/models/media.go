package models

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideRoot is returned when a requested path resolves outside the storage root
	ErrOutsideRoot = errors.New("path escapes storage root")
	// ErrFileNotFound is returned when the requested file does not exist or is not a regular file
	ErrFileNotFound = errors.New("file not found")
)

// DefaultContentType is served for files with an unrecognised extension
const DefaultContentType = "application/octet-stream"

// videoContentTypes maps recognised extensions to their MIME type
var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// ContentTypeFor derives the content type from a file name's extension
func ContentTypeFor(name string) string {
	if ct, ok := videoContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return DefaultContentType
}

// MediaFile is an opened, read-only media file
type MediaFile struct {
	Name        string
	Size        int64
	ContentType string
	Content     ReadAtCloser
}

// ReadAtCloser is the subset of *os.File used for ranged reads
type ReadAtCloser interface {
	io.ReaderAt
	io.Closer
}

// ByteRange is an inclusive byte interval [Start, End]
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range
func (b ByteRange) Length() int64 {
	return b.End - b.Start + 1
}
