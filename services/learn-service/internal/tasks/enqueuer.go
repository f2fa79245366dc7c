package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/lingualeap/backend/libs/middlewares"
	"go.uber.org/zap"
)

// uniqueWindow drops repeated evaluations of the same user queued within the window
const uniqueWindow = time.Minute

// TaskClient is the part of *asynq.Client used to queue tasks
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer queues achievement evaluations
type Enqueuer struct {
	client TaskClient
	logger *zap.Logger
}

// NewEnqueuer creates a new evaluation enqueuer
func NewEnqueuer(client TaskClient, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger,
	}
}

// EnqueueEvaluation queues an achievement evaluation for a user.
// An evaluation already queued for the user within the unique window counts as queued.
func (e *Enqueuer) EnqueueEvaluation(ctx context.Context, userID int) error {
	task, err := NewEvaluateTask(userID)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueAchievements),
		asynq.Unique(uniqueWindow),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			e.logger.Debug("evaluation already queued",
				zap.Int("user_id", userID),
				zap.String("request_id", middlewares.GetRequestID(ctx)),
			)
			return nil
		}
		return fmt.Errorf("failed to enqueue evaluation: %w", err)
	}

	e.logger.Debug("evaluation queued",
		zap.Int("user_id", userID),
		zap.String("task_id", info.ID),
		zap.String("request_id", middlewares.GetRequestID(ctx)),
	)
	return nil
}
