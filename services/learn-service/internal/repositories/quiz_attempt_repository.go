package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

type quizAttemptRepository struct {
	db *sql.DB
}

// NewQuizAttemptRepository creates a new quiz attempt repository
func NewQuizAttemptRepository(db *sql.DB) *quizAttemptRepository {
	return &quizAttemptRepository{
		db: db,
	}
}

// GetByUserID retrieves all quiz attempts of a user, oldest first
func (r *quizAttemptRepository) GetByUserID(ctx context.Context, userID int) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, score, created_at
		FROM quiz_attempts
		WHERE user_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		var attempt models.QuizAttempt
		if err := rows.Scan(&attempt.ID, &attempt.UserID, &attempt.Score, &attempt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz attempts: %w", err)
	}

	return attempts, nil
}
