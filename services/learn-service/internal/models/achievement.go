package models

import "time"

// Achievement slugs known to the evaluator
const (
	SlugFirstStep     = "first-step"
	SlugWeekWarrior   = "week-warrior"
	SlugQuizMaster    = "quiz-master"
	SlugWordCollector = "word-collector"
	SlugGrammarGuru   = "grammar-guru"
	SlugC1Champion    = "c1-champion"
)

// AchievementXPReward is the XP granted for every earned achievement
const AchievementXPReward = 50

// Achievement represents a catalog entry
type Achievement struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XPReward    int    `json:"xpReward"`
}

// AchievementStatus is a catalog entry with the user's earned state
type AchievementStatus struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	XPReward    int        `json:"xpReward"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earnedAt,omitempty"`
}

// EvaluateResponse represents the response of an evaluation request
type EvaluateResponse struct {
	NewAchievements []string `json:"newAchievements"`
}
