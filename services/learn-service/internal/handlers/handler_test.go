package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/lingualeap/backend/libs/auth/middleware"
	authService "github.com/lingualeap/backend/libs/auth/service"
	"github.com/lingualeap/backend/services/learn-service/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "handler-test-secret"
	testAPIKey = "handler-test-api-key"
)

// mockAchievementService is a mock implementation of AchievementService
type mockAchievementService struct {
	names        []string
	statuses     []models.AchievementStatus
	err          error
	calledUserID int
}

func (m *mockAchievementService) Evaluate(ctx context.Context, userID int) ([]string, error) {
	m.calledUserID = userID
	return m.names, m.err
}

func (m *mockAchievementService) ListAchievements(ctx context.Context, userID int) ([]models.AchievementStatus, error) {
	m.calledUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.statuses, nil
}

// mockEnqueuer is a mock implementation of EvaluationEnqueuer
type mockEnqueuer struct {
	err      error
	enqueued []int
}

func (m *mockEnqueuer) EnqueueEvaluation(ctx context.Context, userID int) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, userID)
	return nil
}

// mockActivityService is a mock implementation of ActivityService
type mockActivityService struct {
	logs      []models.ActivityLog
	err       error
	lastPage  int
	lastCount int
}

func (m *mockActivityService) GetActivity(ctx context.Context, userID, page, count int) ([]models.ActivityLog, error) {
	m.lastPage = page
	m.lastCount = count
	if m.err != nil {
		return nil, m.err
	}
	return m.logs, nil
}

// setupRouter wires the handlers under /api/v1 the way the API entry point does
func setupRouter(t *testing.T, achievements AchievementService, enqueuer EvaluationEnqueuer, activity ActivityService) (chi.Router, string) {
	t.Helper()

	tokenGenerator := authService.NewTokenGenerator(testSecret, time.Hour)
	token, err := tokenGenerator.GenerateAccessToken(7)
	require.NoError(t, err)

	logger := zap.NewNop()
	achievementHandler := NewAchievementHandler(achievements, enqueuer, logger)
	activityHandler := NewActivityHandler(activity, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		achievementHandler.RegisterRoutes(r, authMiddleware.AuthMiddleware(tokenGenerator))
		achievementHandler.RegisterInternalRoutes(r, authMiddleware.APIKeyMiddleware(testAPIKey))
		activityHandler.RegisterRoutes(r, authMiddleware.AuthMiddleware(tokenGenerator))
	})

	return r, token
}

func authorize(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
