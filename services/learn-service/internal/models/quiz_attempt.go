package models

import "time"

// PerfectScore is the highest score of a quiz attempt
const PerfectScore = 100

// QuizAttempt represents a single quiz attempt of a user
type QuizAttempt struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
