package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lingualeap/backend/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCourseTestRepository creates a course repository with a mock database
func setupCourseTestRepository(t *testing.T) (*courseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCourseRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewCourseRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCourseRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCourseRepository_GetModulesWithLessons(t *testing.T) {
	modulesQuery := `(?s)SELECT m.id, m.title, l.id.*FROM modules m.*INNER JOIN courses c.*LEFT JOIN lessons l.*WHERE c.level = \? AND LOWER\(m.title\) LIKE \?`

	tests := []struct {
		name            string
		keyword         string
		setupMock       func(sqlmock.Sqlmock)
		expectedError   bool
		expectedModules []models.ModuleLessons
	}{
		{
			name:    "groups lessons by module",
			keyword: "Grammar",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"m.id", "m.title", "l.id"}).
					AddRow(1, "Grammar Basics", 10).
					AddRow(1, "Grammar Basics", 11).
					AddRow(4, "Advanced grammar", 20)
				mock.ExpectQuery(modulesQuery).
					WithArgs("B1", "%grammar%").
					WillReturnRows(rows)
			},
			expectedModules: []models.ModuleLessons{
				{ModuleID: 1, Title: "Grammar Basics", LessonIDs: []int{10, 11}},
				{ModuleID: 4, Title: "Advanced grammar", LessonIDs: []int{20}},
			},
		},
		{
			name:    "module without lessons",
			keyword: "grammar",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"m.id", "m.title", "l.id"}).
					AddRow(2, "GRAMMAR drills", nil)
				mock.ExpectQuery(modulesQuery).
					WithArgs("B1", "%grammar%").
					WillReturnRows(rows)
			},
			expectedModules: []models.ModuleLessons{
				{ModuleID: 2, Title: "GRAMMAR drills", LessonIDs: []int{}},
			},
		},
		{
			name:    "no modules",
			keyword: "grammar",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(modulesQuery).
					WithArgs("B1", "%grammar%").
					WillReturnRows(sqlmock.NewRows([]string{"m.id", "m.title", "l.id"}))
			},
			expectedModules: []models.ModuleLessons{},
		},
		{
			name:    "database error",
			keyword: "grammar",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(modulesQuery).
					WithArgs("B1", "%grammar%").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			modules, err := repo.GetModulesWithLessons(context.Background(), models.LevelB1, tt.keyword)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, modules)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedModules, modules)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
