package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/lingualeap/backend/libs/auth/middleware"
	"github.com/lingualeap/backend/libs/handlers"
	"github.com/lingualeap/backend/services/learn-service/internal/models"
	"go.uber.org/zap"
)

// ActivityService is the interface that wraps methods for activity feed operations
type ActivityService interface {
	// GetActivity retrieves a page of the user's activity feed, newest first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of activity entries and an error if any.
	GetActivity(ctx context.Context, userID, page, count int) ([]models.ActivityLog, error)
}

// ActivityHandler handles HTTP requests for the activity feed
type ActivityHandler struct {
	handlers.BaseHandler
	service ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:     svc,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all activity handler routes
func (h *ActivityHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/activity", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetActivity)
	})
}

// GetActivity handles GET /activity
// @Summary Get activity feed
// @Description Get a paginated activity feed of the current user, newest first
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20, max: 100)"
// @Success 200 {array} models.ActivityLog "Activity feed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /activity [get]
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	// Invalid values fall back to the service defaults
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	logs, err := h.service.GetActivity(r.Context(), userID, page, count)
	if err != nil {
		h.Logger.Error("failed to get activity", zap.Int("user_id", userID), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}

	h.RespondJSON(w, http.StatusOK, logs)
}
