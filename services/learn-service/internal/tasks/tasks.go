// Package tasks defines background achievement evaluation tasks
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeEvaluateAchievements is the asynq task type of a queued evaluation
	TypeEvaluateAchievements = "achievements:evaluate"
	// QueueAchievements is the queue evaluations are put on
	QueueAchievements = "achievements"
)

// EvaluatePayload is the payload of an evaluation task
type EvaluatePayload struct {
	UserID int `json:"userId"`
}

// NewEvaluateTask creates an evaluation task for a user
func NewEvaluateTask(userID int) (*asynq.Task, error) {
	payload, err := json.Marshal(EvaluatePayload{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evaluation payload: %w", err)
	}
	return asynq.NewTask(TypeEvaluateAchievements, payload), nil
}
