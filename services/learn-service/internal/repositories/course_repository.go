package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// GetModulesWithLessons retrieves modules of courses at the given level whose title
// contains the keyword (case-insensitive), each with the ids of its lessons.
// Modules without lessons are returned with an empty id list.
func (r *courseRepository) GetModulesWithLessons(ctx context.Context, level models.Level, titleKeyword string) ([]models.ModuleLessons, error) {
	query := `
		SELECT m.id, m.title, l.id
		FROM modules m
		INNER JOIN courses c ON c.id = m.course_id
		LEFT JOIN lessons l ON l.module_id = m.id
		WHERE c.level = ? AND LOWER(m.title) LIKE ?
		ORDER BY m.id, l.id
	`

	rows, err := r.db.QueryContext(ctx, query, level, "%"+strings.ToLower(titleKeyword)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	modules := []models.ModuleLessons{}
	for rows.Next() {
		var moduleID int
		var title string
		var lessonID sql.NullInt64
		if err := rows.Scan(&moduleID, &title, &lessonID); err != nil {
			return nil, fmt.Errorf("failed to scan module lesson: %w", err)
		}

		// Rows are ordered by module, so a new id starts a new module
		if len(modules) == 0 || modules[len(modules)-1].ModuleID != moduleID {
			modules = append(modules, models.ModuleLessons{
				ModuleID:  moduleID,
				Title:     title,
				LessonIDs: []int{},
			})
		}
		if lessonID.Valid {
			last := &modules[len(modules)-1]
			last.LessonIDs = append(last.LessonIDs, int(lessonID.Int64))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating modules: %w", err)
	}

	return modules, nil
}
