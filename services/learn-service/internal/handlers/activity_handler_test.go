package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityHandler_GetActivity(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		service        *mockActivityService
		authorized     bool
		expectedStatus int
		expectedPage   int
		expectedCount  int
	}{
		{
			name:  "success with paging",
			query: "?page=2&count=5",
			service: &mockActivityService{logs: []models.ActivityLog{
				{ID: 3, UserID: 7, Type: models.ActivityTypeAchievementEarned, Title: "Achievement unlocked: First Step", XPEarned: 50},
			}},
			authorized:     true,
			expectedStatus: http.StatusOK,
			expectedPage:   2,
			expectedCount:  5,
		},
		{
			name:           "invalid paging is passed as zero",
			query:          "?page=abc&count=",
			service:        &mockActivityService{logs: []models.ActivityLog{}},
			authorized:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "service error",
			service:        &mockActivityService{err: errors.New("database error")},
			authorized:     true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unauthorized",
			service:        &mockActivityService{},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, token := setupRouter(t, &mockAchievementService{}, &mockEnqueuer{}, tt.service)
			if !tt.authorized {
				token = ""
			}

			req := authorize(httptest.NewRequest(http.MethodGet, "/api/v1/activity"+tt.query, nil), token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response []models.ActivityLog
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Len(t, response, len(tt.service.logs))
				assert.Equal(t, tt.expectedPage, tt.service.lastPage)
				assert.Equal(t, tt.expectedCount, tt.service.lastCount)
			}
		})
	}
}
