package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lingualeap/backend/services/learn-service/internal/models"
	"go.uber.org/zap"
)

const (
	firstStepMinLessons   = 1
	weekWarriorMinStreak  = 7
	quizMasterMinPerfect  = 5
	wordCollectorMinWords = 500
	grammarTrackLevel     = models.LevelB1
	grammarTrackKeyword   = "grammar"
)

// UserRepository defines methods for user data access
type UserRepository interface {
	// Method GetByID retrieves the gamification state of a user.
	//
	// "id" parameter is the ID of the user.
	//
	// Returns models.ErrNotFound if the user does not exist.
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// ProgressRepository defines methods for progress data access
type ProgressRepository interface {
	// Method GetCompletedByUserID retrieves the completed lessons of a user with their vocabulary.
	//
	// "userID" parameter is the ID of the user.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetCompletedByUserID(ctx context.Context, userID int) ([]models.CompletedLesson, error)
}

// QuizAttemptRepository defines methods for quiz attempt data access
type QuizAttemptRepository interface {
	// Method GetByUserID retrieves all quiz attempts of a user.
	//
	// "userID" parameter is the ID of the user.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetByUserID(ctx context.Context, userID int) ([]models.QuizAttempt, error)
}

// ModuleRepository defines methods for course module data access
type ModuleRepository interface {
	// Method GetModulesWithLessons retrieves modules of courses at a level whose title contains a keyword.
	//
	// "level" parameter is the level of the courses.
	// "titleKeyword" parameter is matched case-insensitively against module titles.
	//
	// Every module is returned with the ids of all its lessons.
	GetModulesWithLessons(ctx context.Context, level models.Level, titleKeyword string) ([]models.ModuleLessons, error)
}

// AchievementRepository defines methods for achievement data access
type AchievementRepository interface {
	// Method GetBySlug retrieves a catalog entry by slug.
	//
	// "slug" parameter is the stable identifier of the achievement.
	//
	// Returns "nil" without an error if the catalog has no such entry.
	GetBySlug(ctx context.Context, slug string) (*models.Achievement, error)
	// Method GetEarnedSlugs retrieves slugs of all achievements a user already holds.
	//
	// "userID" parameter is the ID of the user.
	GetEarnedSlugs(ctx context.Context, userID int) ([]string, error)
	// Method GetAllWithStatus retrieves the whole catalog with the earned state of a user.
	//
	// "userID" parameter is the ID of the user.
	GetAllWithStatus(ctx context.Context, userID int) ([]models.AchievementStatus, error)
	// Method Award grants an achievement, logs the activity and adds the XP reward as one unit.
	//
	// "userID" parameter is the ID of the user.
	// "achievement" parameter is the catalog entry to grant.
	//
	// Returns models.ErrAlreadyEarned if the user already holds the achievement.
	Award(ctx context.Context, userID int, achievement *models.Achievement) error
}

// userHistory is everything the achievement rules look at
type userHistory struct {
	user             *models.User
	completedLessons []models.CompletedLesson
	quizAttempts     []models.QuizAttempt
	grammarModules   []models.ModuleLessons
}

type achievementRule struct {
	slug      string
	satisfied func(h *userHistory) bool
}

// achievementRules are checked in this order so activity entries are written deterministically
var achievementRules = []achievementRule{
	{slug: models.SlugFirstStep, satisfied: hasCompletedFirstLesson},
	{slug: models.SlugWeekWarrior, satisfied: hasWeekStreak},
	{slug: models.SlugQuizMaster, satisfied: hasQuizMastery},
	{slug: models.SlugWordCollector, satisfied: hasVocabularyBreadth},
	{slug: models.SlugGrammarGuru, satisfied: hasCompletedGrammarTrack},
	{slug: models.SlugC1Champion, satisfied: hasTopLevel},
}

func hasCompletedFirstLesson(h *userHistory) bool {
	return len(h.completedLessons) >= firstStepMinLessons
}

func hasWeekStreak(h *userHistory) bool {
	return h.user.Streak >= weekWarriorMinStreak
}

func hasQuizMastery(h *userHistory) bool {
	perfect := 0
	for _, attempt := range h.quizAttempts {
		if attempt.Score == models.PerfectScore {
			perfect++
		}
	}
	return perfect >= quizMasterMinPerfect
}

func hasVocabularyBreadth(h *userHistory) bool {
	return countDistinctWords(h.completedLessons) >= wordCollectorMinWords
}

// countDistinctWords counts distinct lowercase words across lesson vocabularies
func countDistinctWords(lessons []models.CompletedLesson) int {
	words := make(map[string]struct{})
	for _, lesson := range lessons {
		for _, word := range lesson.Vocabulary.Words {
			words[strings.ToLower(word)] = struct{}{}
		}
	}
	return len(words)
}

// hasCompletedGrammarTrack is false when no grammar module exists
func hasCompletedGrammarTrack(h *userHistory) bool {
	if len(h.grammarModules) == 0 {
		return false
	}

	completed := make(map[int]struct{}, len(h.completedLessons))
	for _, lesson := range h.completedLessons {
		completed[lesson.LessonID] = struct{}{}
	}

	for _, module := range h.grammarModules {
		for _, lessonID := range module.LessonIDs {
			if _, ok := completed[lessonID]; !ok {
				return false
			}
		}
	}
	return true
}

func hasTopLevel(h *userHistory) bool {
	return h.user.Level == models.TopLevel
}

type achievementService struct {
	userRepo        UserRepository
	progressRepo    ProgressRepository
	quizAttemptRepo QuizAttemptRepository
	moduleRepo      ModuleRepository
	achievementRepo AchievementRepository
	logger          *zap.Logger
}

// NewAchievementService creates a new achievement service
func NewAchievementService(
	userRepo UserRepository,
	progressRepo ProgressRepository,
	quizAttemptRepo QuizAttemptRepository,
	moduleRepo ModuleRepository,
	achievementRepo AchievementRepository,
	logger *zap.Logger,
) *achievementService {
	return &achievementService{
		userRepo:        userRepo,
		progressRepo:    progressRepo,
		quizAttemptRepo: quizAttemptRepo,
		moduleRepo:      moduleRepo,
		achievementRepo: achievementRepo,
		logger:          logger,
	}
}

// Evaluate grants every achievement whose rule the user now satisfies and returns their names.
//
// An unknown user yields an empty result. A failure to grant one achievement does not stop
// the others; the first such failure is returned together with the names granted so far.
func (s *achievementService) Evaluate(ctx context.Context, userID int) ([]string, error) {
	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	earnedSlugs, err := s.achievementRepo.GetEarnedSlugs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned achievements: %w", err)
	}
	earned := make(map[string]struct{}, len(earnedSlugs))
	for _, slug := range earnedSlugs {
		earned[slug] = struct{}{}
	}

	newlyEarned := []string{}
	var firstErr error
	for _, rule := range achievementRules {
		if _, ok := earned[rule.slug]; ok {
			continue
		}
		if !rule.satisfied(history) {
			continue
		}

		name, err := s.award(ctx, userID, rule.slug)
		if err != nil {
			s.logger.Error("failed to award achievement",
				zap.Int("user_id", userID),
				zap.String("achievement_slug", rule.slug),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if name != "" {
			newlyEarned = append(newlyEarned, name)
		}
	}

	if len(newlyEarned) > 0 {
		s.logger.Info("achievements awarded", zap.Int("user_id", userID), zap.Strings("achievements", newlyEarned))
	}

	return newlyEarned, firstErr
}

// loadHistory loads the user together with the records the rules inspect
func (s *achievementService) loadHistory(ctx context.Context, userID int) (*userHistory, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	completedLessons, err := s.progressRepo.GetCompletedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}

	quizAttempts, err := s.quizAttemptRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz attempts: %w", err)
	}

	grammarModules, err := s.moduleRepo.GetModulesWithLessons(ctx, grammarTrackLevel, grammarTrackKeyword)
	if err != nil {
		return nil, fmt.Errorf("failed to get grammar modules: %w", err)
	}

	return &userHistory{
		user:             user,
		completedLessons: completedLessons,
		quizAttempts:     quizAttempts,
		grammarModules:   grammarModules,
	}, nil
}

// award grants one achievement and returns its name.
// An empty name with a nil error means nothing was granted: the catalog has no
// such entry or a concurrent evaluation granted it first.
func (s *achievementService) award(ctx context.Context, userID int, slug string) (string, error) {
	achievement, err := s.achievementRepo.GetBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to get achievement %q: %w", slug, err)
	}
	if achievement == nil {
		s.logger.Debug("achievement not in catalog, skipping", zap.String("achievement_slug", slug))
		return "", nil
	}

	if err := s.achievementRepo.Award(ctx, userID, achievement); err != nil {
		if errors.Is(err, models.ErrAlreadyEarned) {
			return "", nil
		}
		return "", fmt.Errorf("failed to award achievement %q: %w", slug, err)
	}

	return achievement.Name, nil
}

// ListAchievements retrieves the achievement catalog with the user's earned state
func (s *achievementService) ListAchievements(ctx context.Context, userID int) ([]models.AchievementStatus, error) {
	statuses, err := s.achievementRepo.GetAllWithStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return statuses, nil
}
