package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

// GetByID retrieves the gamification state of a user
//
// Returns models.ErrNotFound if the user does not exist.
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, xp, streak, level, last_activity_at FROM users WHERE id = ?`

	var user models.User
	var lastActivityAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.XP,
		&user.Streak,
		&user.Level,
		&lastActivityAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastActivityAt.Valid {
		user.LastActivityAt = &lastActivityAt.Time
	}

	return &user, nil
}

// ListActiveSince retrieves ids of users whose last activity is not older than "since"
func (r *userRepository) ListActiveSince(ctx context.Context, since time.Time) ([]int, error) {
	query := `SELECT id FROM users WHERE last_activity_at >= ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return ids, nil
}
