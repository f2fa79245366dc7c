package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lingualeap/backend/services/learn-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAchievementTestRepository creates an achievement repository with a mock database
func setupAchievementTestRepository(t *testing.T) (*achievementRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewAchievementRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewAchievementRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewAchievementRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestAchievementRepository_GetBySlug(t *testing.T) {
	query := `SELECT id, slug, name, description, xp_reward FROM achievements WHERE slug = \?`

	tests := []struct {
		name                string
		slug                string
		setupMock           func(sqlmock.Sqlmock)
		expectedError       bool
		expectedAchievement *models.Achievement
	}{
		{
			name: "success",
			slug: models.SlugFirstStep,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "slug", "name", "description", "xp_reward"}).
					AddRow(1, "first-step", "First Step", "Complete your first lesson", 50)
				mock.ExpectQuery(query).
					WithArgs("first-step").
					WillReturnRows(rows)
			},
			expectedAchievement: &models.Achievement{
				ID:          1,
				Slug:        "first-step",
				Name:        "First Step",
				Description: "Complete your first lesson",
				XPReward:    50,
			},
		},
		{
			name: "absent from catalog",
			slug: "unknown",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs("unknown").
					WillReturnError(sql.ErrNoRows)
			},
			expectedAchievement: nil,
		},
		{
			name: "database error",
			slug: models.SlugFirstStep,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs("first-step").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAchievementTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			achievement, err := repo.GetBySlug(context.Background(), tt.slug)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedAchievement, achievement)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAchievementRepository_GetEarnedSlugs(t *testing.T) {
	query := `(?s)SELECT a.slug.*FROM user_achievements ua.*INNER JOIN achievements a.*WHERE ua.user_id = \?`

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedSlugs []string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"slug"}).AddRow("first-step").AddRow("quiz-master")
				mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)
			},
			expectedSlugs: []string{"first-step", "quiz-master"},
		},
		{
			name: "nothing earned",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"slug"}))
			},
			expectedSlugs: []string{},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAchievementTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			slugs, err := repo.GetEarnedSlugs(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, slugs)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedSlugs, slugs)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAchievementRepository_GetAllWithStatus(t *testing.T) {
	earnedAt := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	columns := []string{"slug", "name", "description", "xp_reward", "earned_at"}
	query := `(?s)SELECT a.slug, a.name, a.description, a.xp_reward, ua.earned_at.*FROM achievements a.*LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = \?`

	tests := []struct {
		name             string
		setupMock        func(sqlmock.Sqlmock)
		expectedError    bool
		expectedStatuses []models.AchievementStatus
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow("first-step", "First Step", "Complete your first lesson", 50, earnedAt).
					AddRow("week-warrior", "Week Warrior", "Keep a 7-day streak", 50, nil)
				mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)
			},
			expectedStatuses: []models.AchievementStatus{
				{Slug: "first-step", Name: "First Step", Description: "Complete your first lesson", XPReward: 50, Earned: true, EarnedAt: &earnedAt},
				{Slug: "week-warrior", Name: "Week Warrior", Description: "Keep a 7-day streak", XPReward: 50},
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name: "scan error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow("first-step", "First Step", "Complete your first lesson", "fifty", nil)
				mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAchievementTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			statuses, err := repo.GetAllWithStatus(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, statuses)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatuses, statuses)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAchievementRepository_Award(t *testing.T) {
	achievement := &models.Achievement{ID: 3, Slug: "quiz-master", Name: "Quiz Master"}
	grantQuery := `INSERT INTO user_achievements \(user_id, achievement_id\) VALUES \(\?, \?\)`
	logQuery := `(?s)INSERT INTO activity_logs \(user_id, type, title, xp_earned, metadata\).*VALUES \(\?, \?, \?, \?, \?\)`
	xpQuery := `UPDATE users SET xp = xp \+ \? WHERE id = \?`
	logArgs := []driver.Value{7, "achievement_earned", "Achievement unlocked: Quiz Master", 50, `{"achievementSlug":"quiz-master"}`}

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(logQuery).WithArgs(logArgs...).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(xpQuery).WithArgs(50, 7).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate grant",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-3'"})
				mock.ExpectRollback()
			},
			expectedError: models.ErrAlreadyEarned,
		},
		{
			name: "other mysql error on grant",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).
					WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
				mock.ExpectRollback()
			},
			expectedError: errors.New("failed to insert user achievement"),
		},
		{
			name: "activity log error rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(logQuery).WithArgs(logArgs...).WillReturnError(errors.New("insert error"))
				mock.ExpectRollback()
			},
			expectedError: errors.New("failed to insert activity log"),
		},
		{
			name: "xp update error rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(logQuery).WithArgs(logArgs...).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(xpQuery).WithArgs(50, 7).WillReturnError(errors.New("update error"))
				mock.ExpectRollback()
			},
			expectedError: errors.New("failed to update user xp"),
		},
		{
			name: "user missing rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(logQuery).WithArgs(logArgs...).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(xpQuery).WithArgs(50, 7).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "begin error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin error"))
			},
			expectedError: errors.New("failed to begin transaction"),
		},
		{
			name: "commit error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(grantQuery).WithArgs(7, 3).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(logQuery).WithArgs(logArgs...).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(xpQuery).WithArgs(50, 7).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(errors.New("commit error"))
			},
			expectedError: errors.New("failed to commit transaction"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAchievementTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Award(context.Background(), 7, achievement)

			switch {
			case tt.expectedError == nil:
				assert.NoError(t, err)
			case errors.Is(tt.expectedError, models.ErrAlreadyEarned), errors.Is(tt.expectedError, models.ErrNotFound):
				assert.ErrorIs(t, err, tt.expectedError)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.NotErrorIs(t, err, models.ErrAlreadyEarned)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
