package models

import "time"

// Level represents a CEFR proficiency level
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

// TopLevel is the highest proficiency level a user can reach
const TopLevel = LevelC1

// User represents the gamification state of a learner
type User struct {
	ID             int        `json:"id"`
	XP             int        `json:"xp"`
	Streak         int        `json:"streak"`
	Level          Level      `json:"level"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
}
