package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// GetCompletedByUserID retrieves the completed lessons of a user together with their vocabulary
func (r *progressRepository) GetCompletedByUserID(ctx context.Context, userID int) ([]models.CompletedLesson, error) {
	query := `
		SELECT p.lesson_id, l.vocabulary
		FROM progress p
		INNER JOIN lessons l ON l.id = p.lesson_id
		WHERE p.user_id = ? AND p.completed = TRUE
		ORDER BY p.lesson_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.CompletedLesson{}
	for rows.Next() {
		var lesson models.CompletedLesson
		var vocabulary []byte
		if err := rows.Scan(&lesson.LessonID, &vocabulary); err != nil {
			return nil, fmt.Errorf("failed to scan completed lesson: %w", err)
		}
		lesson.Vocabulary = models.ParseVocabulary(vocabulary)
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed lessons: %w", err)
	}

	return lessons, nil
}
