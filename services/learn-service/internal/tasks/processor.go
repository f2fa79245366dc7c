package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Evaluator defines the interface for achievement evaluation
type Evaluator interface {
	// Method Evaluate grants every achievement the user newly satisfies.
	//
	// "userID" parameter is the ID of the user.
	//
	// Returns names of the newly granted achievements and the first failure if any.
	Evaluate(ctx context.Context, userID int) ([]string, error)
}

// Processor runs queued achievement evaluations
type Processor struct {
	evaluator Evaluator
	logger    *zap.Logger
}

// NewProcessor creates a new evaluation processor
func NewProcessor(evaluator Evaluator, logger *zap.Logger) *Processor {
	return &Processor{
		evaluator: evaluator,
		logger:    logger,
	}
}

// HandleEvaluate processes an "achievements:evaluate" task.
// A malformed payload is not retried, an evaluation failure is retried by asynq.
func (p *Processor) HandleEvaluate(ctx context.Context, t *asynq.Task) error {
	var payload EvaluatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.logger.Error("invalid evaluation payload", zap.ByteString("payload", t.Payload()), zap.Error(err))
		return fmt.Errorf("invalid evaluation payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.UserID <= 0 {
		p.logger.Error("invalid user id in evaluation payload", zap.Int("user_id", payload.UserID))
		return fmt.Errorf("invalid user id %d: %w", payload.UserID, asynq.SkipRetry)
	}

	names, err := p.evaluator.Evaluate(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to evaluate achievements for user %d: %w", payload.UserID, err)
	}

	p.logger.Info("evaluation processed", zap.Int("user_id", payload.UserID), zap.Strings("new_achievements", names))
	return nil
}

// Register registers task handlers on an asynq mux
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeEvaluateAchievements, p.HandleEvaluate)
}
