package services

import (
	"context"
	"fmt"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user *models.User
	err  error
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, models.ErrNotFound
	}
	return m.user, nil
}

// mockProgressRepository is a mock implementation of ProgressRepository
type mockProgressRepository struct {
	lessons []models.CompletedLesson
	err     error
}

func (m *mockProgressRepository) GetCompletedByUserID(ctx context.Context, userID int) ([]models.CompletedLesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lessons, nil
}

// mockQuizAttemptRepository is a mock implementation of QuizAttemptRepository
type mockQuizAttemptRepository struct {
	attempts []models.QuizAttempt
	err      error
}

func (m *mockQuizAttemptRepository) GetByUserID(ctx context.Context, userID int) ([]models.QuizAttempt, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.attempts, nil
}

// mockModuleRepository is a mock implementation of ModuleRepository
type mockModuleRepository struct {
	modules []models.ModuleLessons
	err     error
}

func (m *mockModuleRepository) GetModulesWithLessons(ctx context.Context, level models.Level, titleKeyword string) ([]models.ModuleLessons, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

// mockAchievementRepository is a mock implementation of AchievementRepository.
// Awarded slugs become earned, so a second evaluation sees them.
type mockAchievementRepository struct {
	catalog      map[string]*models.Achievement
	earned       []string
	statuses     []models.AchievementStatus
	earnedErr    error
	getErr       map[string]error
	awardErr     map[string]error
	statusesErr  error
	awardedSlugs []string
}

func (m *mockAchievementRepository) GetBySlug(ctx context.Context, slug string) (*models.Achievement, error) {
	if err := m.getErr[slug]; err != nil {
		return nil, err
	}
	return m.catalog[slug], nil
}

func (m *mockAchievementRepository) GetEarnedSlugs(ctx context.Context, userID int) ([]string, error) {
	if m.earnedErr != nil {
		return nil, m.earnedErr
	}
	return m.earned, nil
}

func (m *mockAchievementRepository) GetAllWithStatus(ctx context.Context, userID int) ([]models.AchievementStatus, error) {
	if m.statusesErr != nil {
		return nil, m.statusesErr
	}
	return m.statuses, nil
}

func (m *mockAchievementRepository) Award(ctx context.Context, userID int, achievement *models.Achievement) error {
	if err := m.awardErr[achievement.Slug]; err != nil {
		return err
	}
	m.awardedSlugs = append(m.awardedSlugs, achievement.Slug)
	m.earned = append(m.earned, achievement.Slug)
	return nil
}

// fullCatalog returns every achievement the evaluator knows about
func fullCatalog() map[string]*models.Achievement {
	names := map[string]string{
		models.SlugFirstStep:     "First Step",
		models.SlugWeekWarrior:   "Week Warrior",
		models.SlugQuizMaster:    "Quiz Master",
		models.SlugWordCollector: "Word Collector",
		models.SlugGrammarGuru:   "Grammar Guru",
		models.SlugC1Champion:    "C1 Champion",
	}
	catalog := make(map[string]*models.Achievement, len(names))
	id := 1
	for _, slug := range []string{
		models.SlugFirstStep,
		models.SlugWeekWarrior,
		models.SlugQuizMaster,
		models.SlugWordCollector,
		models.SlugGrammarGuru,
		models.SlugC1Champion,
	} {
		catalog[slug] = &models.Achievement{ID: id, Slug: slug, Name: names[slug], XPReward: models.AchievementXPReward}
		id++
	}
	return catalog
}

// lessonWithWords builds a completed lesson whose vocabulary holds n generated words
func lessonWithWords(lessonID, n int, prefix string) models.CompletedLesson {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return models.CompletedLesson{
		LessonID:   lessonID,
		Vocabulary: models.Vocabulary{Form: models.VocabularyList, Words: words},
	}
}

// perfectAttempts builds n quiz attempts with a perfect score
func perfectAttempts(n int) []models.QuizAttempt {
	attempts := make([]models.QuizAttempt, n)
	for i := range attempts {
		attempts[i] = models.QuizAttempt{ID: i + 1, Score: models.PerfectScore}
	}
	return attempts
}
