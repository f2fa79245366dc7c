package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

type achievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *sql.DB) *achievementRepository {
	return &achievementRepository{
		db: db,
	}
}

// GetBySlug retrieves a catalog entry by slug
//
// Returns nil without an error if the catalog has no such entry.
func (r *achievementRepository) GetBySlug(ctx context.Context, slug string) (*models.Achievement, error) {
	query := `SELECT id, slug, name, description, xp_reward FROM achievements WHERE slug = ?`

	var achievement models.Achievement
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&achievement.ID,
		&achievement.Slug,
		&achievement.Name,
		&achievement.Description,
		&achievement.XPReward,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}

	return &achievement, nil
}

// GetEarnedSlugs retrieves slugs of all achievements a user already holds
func (r *achievementRepository) GetEarnedSlugs(ctx context.Context, userID int) ([]string, error) {
	query := `
		SELECT a.slug
		FROM user_achievements ua
		INNER JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query earned achievements: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan achievement slug: %w", err)
		}
		slugs = append(slugs, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earned achievements: %w", err)
	}

	return slugs, nil
}

// GetAllWithStatus retrieves the whole catalog with the user's earned state
func (r *achievementRepository) GetAllWithStatus(ctx context.Context, userID int) ([]models.AchievementStatus, error) {
	query := `
		SELECT a.slug, a.name, a.description, a.xp_reward, ua.earned_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = ?
		ORDER BY a.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	statuses := []models.AchievementStatus{}
	for rows.Next() {
		var status models.AchievementStatus
		var earnedAt sql.NullTime
		if err := rows.Scan(
			&status.Slug,
			&status.Name,
			&status.Description,
			&status.XPReward,
			&earnedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		if earnedAt.Valid {
			status.Earned = true
			status.EarnedAt = &earnedAt.Time
		}
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}

	return statuses, nil
}

// Award grants an achievement to a user in one transaction: the grant record,
// its activity log entry and the XP increment are written together or not at all.
//
// Returns models.ErrAlreadyEarned if the user already holds the achievement
// and models.ErrNotFound if the user does not exist.
func (r *achievementRepository) Award(ctx context.Context, userID int, achievement *models.Achievement) error {
	metadata, err := json.Marshal(models.AchievementMetadata{AchievementSlug: achievement.Slug})
	if err != nil {
		return fmt.Errorf("failed to marshal activity metadata: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	grantQuery := `INSERT INTO user_achievements (user_id, achievement_id) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, grantQuery, userID, achievement.ID); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return models.ErrAlreadyEarned
		}
		return fmt.Errorf("failed to insert user achievement: %w", err)
	}

	logQuery := `
		INSERT INTO activity_logs (user_id, type, title, xp_earned, metadata)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, logQuery,
		userID,
		models.ActivityTypeAchievementEarned,
		"Achievement unlocked: "+achievement.Name,
		models.AchievementXPReward,
		string(metadata),
	); err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	xpQuery := `UPDATE users SET xp = xp + ? WHERE id = ?`
	result, err := tx.ExecContext(ctx, xpQuery, models.AchievementXPReward, userID)
	if err != nil {
		return fmt.Errorf("failed to update user xp: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
