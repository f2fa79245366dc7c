package models

import (
	"encoding/json"
	"time"
)

// ActivityType represents the type of an activity log entry
type ActivityType string

const (
	ActivityTypeAchievementEarned ActivityType = "achievement_earned"
)

// ActivityLog represents an append-only record of user activity
type ActivityLog struct {
	ID        int             `json:"id"`
	UserID    int             `json:"userId"`
	Type      ActivityType    `json:"type"`
	Title     string          `json:"title"`
	XPEarned  int             `json:"xpEarned"`
	Metadata  json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AchievementMetadata is the metadata of an "achievement_earned" activity
type AchievementMetadata struct {
	AchievementSlug string `json:"achievementSlug"`
}
