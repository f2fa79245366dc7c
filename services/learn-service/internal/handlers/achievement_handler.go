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

// AchievementService is the interface that wraps methods for achievement operations
type AchievementService interface {
	// Evaluate grants every achievement the user newly satisfies
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns names of the newly granted achievements and the first failure if any.
	Evaluate(ctx context.Context, userID int) ([]string, error)
	// ListAchievements retrieves the achievement catalog with the user's earned state
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the catalog and an error if any.
	ListAchievements(ctx context.Context, userID int) ([]models.AchievementStatus, error)
}

// EvaluationEnqueuer is the interface that wraps queuing of background evaluations
type EvaluationEnqueuer interface {
	// EnqueueEvaluation queues an achievement evaluation for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns an error if the task could not be queued.
	EnqueueEvaluation(ctx context.Context, userID int) error
}

// AchievementHandler handles HTTP requests for achievement operations
type AchievementHandler struct {
	handlers.BaseHandler
	service  AchievementService
	enqueuer EvaluationEnqueuer
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(svc AchievementService, enqueuer EvaluationEnqueuer, logger *zap.Logger) *AchievementHandler {
	return &AchievementHandler{
		service:     svc,
		enqueuer:    enqueuer,
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers user-facing achievement routes
func (h *AchievementHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/achievements", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListAchievements)
		r.Post("/evaluate", h.Evaluate)
	})
}

// RegisterInternalRoutes registers service-to-service achievement routes
func (h *AchievementHandler) RegisterInternalRoutes(r chi.Router, apiKeyMiddleware func(http.Handler) http.Handler) {
	r.Route("/internal/users/{userId}/achievements", func(r chi.Router) {
		r.Use(apiKeyMiddleware)
		r.Post("/evaluate", h.EnqueueEvaluation)
	})
}

// Evaluate handles POST /achievements/evaluate
// @Summary Evaluate achievements
// @Description Grant every achievement the current user newly satisfies
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.EvaluateResponse "Newly earned achievements"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /achievements/evaluate [post]
func (h *AchievementHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	names, err := h.service.Evaluate(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to evaluate achievements", zap.Int("user_id", userID), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to evaluate achievements")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.EvaluateResponse{NewAchievements: names})
}

// ListAchievements handles GET /achievements
// @Summary List achievements
// @Description Get the achievement catalog with the current user's earned state
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AchievementStatus "Achievement catalog"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /achievements [get]
func (h *AchievementHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	statuses, err := h.service.ListAchievements(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to list achievements", zap.Int("user_id", userID), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}

	h.RespondJSON(w, http.StatusOK, statuses)
}

// EnqueueEvaluation handles POST /internal/users/{userId}/achievements/evaluate
// @Summary Queue an achievement evaluation
// @Description Queue a background achievement evaluation for a user
// @Tags internal
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Success 202 {object} map[string]any "Evaluation queued"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/users/{userId}/achievements/evaluate [post]
func (h *AchievementHandler) EnqueueEvaluation(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil || userID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.enqueuer.EnqueueEvaluation(r.Context(), userID); err != nil {
		h.Logger.Error("failed to enqueue evaluation", zap.Int("user_id", userID), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to enqueue evaluation")
		return
	}

	h.RespondJSON(w, http.StatusAccepted, map[string]any{
		"userId": userID,
		"status": "queued",
	})
}
