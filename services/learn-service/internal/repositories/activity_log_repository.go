package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *sql.DB) *activityLogRepository {
	return &activityLogRepository{
		db: db,
	}
}

// GetByUserID retrieves a page of a user's activity log, newest first
func (r *activityLogRepository) GetByUserID(ctx context.Context, userID, page, count int) ([]models.ActivityLog, error) {
	query := `
		SELECT id, user_id, type, title, xp_earned, metadata, created_at
		FROM activity_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	offset := (page - 1) * count
	rows, err := r.db.QueryContext(ctx, query, userID, count, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var entry models.ActivityLog
		var metadata []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Type,
			&entry.Title,
			&entry.XPEarned,
			&metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		if len(metadata) > 0 {
			entry.Metadata = metadata
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return logs, nil
}
