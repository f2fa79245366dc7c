package services

import (
	"context"
	"fmt"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 100
	// maxActivityPage keeps (page-1)*count far below any integer limit
	maxActivityPage = 1_000_000
)

// ActivityLogRepository defines methods for activity log data access
type ActivityLogRepository interface {
	// Method GetByUserID retrieves a page of a user's activity log, newest first.
	//
	// "userID" parameter is the ID of the user.
	// "page" parameter is the 1-based page number.
	// "count" parameter is the number of entries per page.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetByUserID(ctx context.Context, userID, page, count int) ([]models.ActivityLog, error)
}

type activityService struct {
	repo ActivityLogRepository
}

// NewActivityService creates a new activity service
func NewActivityService(repo ActivityLogRepository) *activityService {
	return &activityService{
		repo: repo,
	}
}

// GetActivity retrieves a page of the user's activity feed
func (s *activityService) GetActivity(ctx context.Context, userID, page, count int) ([]models.ActivityLog, error) {
	if page < 1 {
		page = 1
	}
	if page > maxActivityPage {
		page = maxActivityPage
	}
	if count < 1 {
		count = defaultActivityPageSize
	}
	if count > maxActivityPageSize {
		count = maxActivityPageSize
	}

	logs, err := s.repo.GetByUserID(ctx, userID, page, count)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return logs, nil
}
