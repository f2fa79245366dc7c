package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lingualeap/backend/libs/handlers"
	"github.com/lingualeap/backend/services/media-service/internal/models"
	"github.com/lingualeap/backend/services/media-service/internal/services"
	"go.uber.org/zap"
)

// MediaService defines the interface for media service operations
type MediaService interface {
	// Method OpenMedia opens a media file under the storage root.
	//
	// "requestedPath" parameter is the path of the file relative to the storage root.
	//
	// Returns models.ErrOutsideRoot or models.ErrFileNotFound when the file cannot be served,
	// any other error is an I/O failure. The caller must close the returned file.
	OpenMedia(requestedPath string) (*models.MediaFile, error)
	// Method StreamRange writes the given byte range of src to dst.
	//
	// Returns an error wrapping services.ErrClientGone when the client stopped reading.
	StreamRange(ctx context.Context, dst io.Writer, src io.ReaderAt, r models.ByteRange) error
}

// MediaHandler handles media-related HTTP requests
type MediaHandler struct {
	handlers.BaseHandler
	mediaService  MediaService
	authenticated func(*http.Request) bool
}

// NewMediaHandler creates a new media handler
//
// "authenticated" reports whether a request carries valid credentials.
func NewMediaHandler(mediaService MediaService, logger *zap.Logger, authenticated func(*http.Request) bool) *MediaHandler {
	return &MediaHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		mediaService:  mediaService,
		authenticated: authenticated,
	}
}

// RegisterRoutes registers all media handler routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/media", func(r chi.Router) {
		r.Get("/videos/*", h.StreamVideo)
	})
}

// StreamVideo handles GET /media/videos/*
// @Summary Stream a video file
// @Description Stream a stored video. Supports a single "bytes=<start>-[<end>]" range for seeking.
// @Tags media
// @Produce video/mp4
// @Produce video/webm
// @Security BearerAuth
// @Param path path string true "File path relative to the media root"
// @Param Range header string false "Byte range, e.g. bytes=0-1023"
// @Success 200 "Full file content"
// @Success 206 "Partial file content"
// @Failure 401 "Authentication required"
// @Failure 404 {object} map[string]string "File not found"
// @Failure 416 "Range not satisfiable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /media/videos/{path} [get]
func (h *MediaHandler) StreamVideo(w http.ResponseWriter, r *http.Request) {
	if h.authenticated == nil || !h.authenticated(r) {
		h.RespondStatus(w, http.StatusUnauthorized)
		return
	}

	requestedPath := chi.URLParam(r, "*")
	// chi routes on the raw path when it carries escapes like %2F
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(requestedPath)
		if err != nil {
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		requestedPath = unescaped
	}

	media, err := h.mediaService.OpenMedia(requestedPath)
	if err != nil {
		if errors.Is(err, models.ErrFileNotFound) || errors.Is(err, models.ErrOutsideRoot) {
			h.Logger.Info("media file not found", zap.String("path", requestedPath), zap.Error(err))
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.Logger.Error("failed to open media file", zap.Error(err), zap.String("path", requestedPath))
		h.RespondError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer media.Content.Close()

	byteRange, outcome := services.ParseRange(r.Header.Get("Range"), media.Size)

	switch outcome {
	case services.RangeUnsatisfiable:
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", media.Size))
		h.RespondStatus(w, http.StatusRequestedRangeNotSatisfiable)
		return
	case services.RangeSatisfiable:
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", byteRange.Start, byteRange.End, media.Size))
		w.Header().Set("Content-Length", strconv.FormatInt(byteRange.Length(), 10))
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Type", media.ContentType)
		w.WriteHeader(http.StatusPartialContent)
	default:
		w.Header().Set("Content-Length", strconv.FormatInt(media.Size, 10))
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Type", media.ContentType)
		w.WriteHeader(http.StatusOK)
	}

	if err := h.mediaService.StreamRange(r.Context(), w, media.Content, byteRange); err != nil {
		if errors.Is(err, services.ErrClientGone) {
			h.Logger.Debug("client stopped streaming", zap.String("path", requestedPath))
			return
		}
		// Headers are already on the wire, the truncated body signals the failure
		h.Logger.Error("failed to stream media file", zap.Error(err), zap.String("path", requestedPath))
	}
}
