package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lingualeap/backend/services/media-service/internal/models"
)

// StreamChunkSize is the number of bytes copied per iteration of the stream loop
const StreamChunkSize = 64 * 1024

// ErrClientGone reports that the consumer stopped reading before the range was fully sent
var ErrClientGone = errors.New("client disconnected")

// Storage defines the interface for read-only file access
type Storage interface {
	// Open opens a file under the storage root.
	//
	// "requestedPath" is a slash-separated path relative to the root.
	//
	// Returns models.ErrOutsideRoot for paths escaping the root and models.ErrFileNotFound
	// for missing files or directories. Any other error is an I/O failure.
	Open(requestedPath string) (*os.File, int64, error)
}

// RangeOutcome classifies a Range header against a file size
type RangeOutcome int

const (
	// RangeAbsent means the full file should be served
	RangeAbsent RangeOutcome = iota
	// RangeSatisfiable means a single sub-range should be served with 206
	RangeSatisfiable
	// RangeUnsatisfiable means 416 with "Content-Range: bytes */size"
	RangeUnsatisfiable
)

// MediaService opens media files and streams byte ranges of them
type MediaService struct {
	storage   Storage
	chunkSize int
}

// NewMediaService creates a new media service
func NewMediaService(storage Storage) *MediaService {
	return &MediaService{
		storage:   storage,
		chunkSize: StreamChunkSize,
	}
}

// OpenMedia opens a media file and derives its content type from the extension.
// The caller owns the returned file and must close it.
func (s *MediaService) OpenMedia(requestedPath string) (*models.MediaFile, error) {
	file, size, err := s.storage.Open(requestedPath)
	if err != nil {
		return nil, err
	}

	return &models.MediaFile{
		Name:        requestedPath,
		Size:        size,
		ContentType: models.ContentTypeFor(requestedPath),
		Content:     file,
	}, nil
}

// ParseRange interprets a Range header for a file of the given size.
//
// Only the single-range form "bytes=<start>-[<end>]" is honoured, end defaulting to the last byte.
// A start or end at or beyond size, or start greater than end, is unsatisfiable.
// Any other header (other units, suffix ranges, multiple ranges, garbage) is ignored
// and reported as RangeAbsent so the full file is served.
func ParseRange(header string, size int64) (models.ByteRange, RangeOutcome) {
	full := models.ByteRange{Start: 0, End: size - 1}

	if header == "" {
		return full, RangeAbsent
	}

	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return full, RangeAbsent
	}

	startStr, endStr, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok || startStr == "" {
		return full, RangeAbsent
	}

	start, ok := parseBytePos(startStr)
	if !ok {
		return full, RangeAbsent
	}

	end := size - 1
	if endStr != "" {
		if end, ok = parseBytePos(endStr); !ok {
			return full, RangeAbsent
		}
	}

	if start >= size || end >= size || start > end {
		return models.ByteRange{}, RangeUnsatisfiable
	}

	return models.ByteRange{Start: start, End: end}, RangeSatisfiable
}

// parseBytePos parses a byte position, which is one or more ASCII digits with no sign
func parseBytePos(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// StreamRange copies the bytes of r from src to dst in chunks.
//
// The context is checked before every chunk. Cancellation or a failed write to dst
// returns an error wrapping ErrClientGone, a failed read from src is returned as is.
func (s *MediaService) StreamRange(ctx context.Context, dst io.Writer, src io.ReaderAt, r models.ByteRange) error {
	section := io.NewSectionReader(src, r.Start, r.Length())
	buf := make([]byte, s.chunkSize)

	var flusher interface{ Flush() }
	if f, ok := dst.(interface{ Flush() }); ok {
		flusher = f
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrClientGone, err)
		}

		n, readErr := section.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("%w: %w", ErrClientGone, err)
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read media file: %w", readErr)
		}
	}
}
