package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lingualeap/backend/libs/middlewares"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ActiveUserRepository defines methods for selecting users to re-evaluate
type ActiveUserRepository interface {
	// ListActiveSince returns ids of users whose last activity is not older than "since"
	ListActiveSince(ctx context.Context, since time.Time) ([]int, error)
}

// EvaluationEnqueuer defines methods for queuing evaluations
type EvaluationEnqueuer interface {
	// EnqueueEvaluation queues an achievement evaluation for a user
	EnqueueEvaluation(ctx context.Context, userID int) error
}

// Scheduler periodically queues achievement re-evaluations of recently active users
type Scheduler struct {
	cron         *cron.Cron
	userRepo     ActiveUserRepository
	enqueuer     EvaluationEnqueuer
	logger       *zap.Logger
	activeWindow time.Duration
	now          func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(userRepo ActiveUserRepository, enqueuer EvaluationEnqueuer, logger *zap.Logger, activeWindow time.Duration) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		userRepo:     userRepo,
		enqueuer:     enqueuer,
		logger:       logger,
		activeWindow: activeWindow,
		now:          time.Now,
	}
}

// Start registers the re-evaluation job under a standard 5-field cron expression and starts the scheduler
func (s *Scheduler) Start(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	if _, err := s.cron.AddFunc(spec, func() {
		// each run gets its own id so the enqueue logs of one run can be grouped
		s.enqueueActiveUsers(middlewares.WithRequestID(context.Background(), uuid.New().String()))
	}); err != nil {
		return fmt.Errorf("failed to register evaluation job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("cron", spec), zap.Duration("active_window", s.activeWindow))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// enqueueActiveUsers queues one evaluation per recently active user and returns how many were queued
func (s *Scheduler) enqueueActiveUsers(ctx context.Context) int {
	since := s.now().Add(-s.activeWindow)

	userIDs, err := s.userRepo.ListActiveSince(ctx, since)
	if err != nil {
		s.logger.Error("Failed to list active users", zap.Error(err))
		return 0
	}

	queued := 0
	for _, userID := range userIDs {
		if err := s.enqueuer.EnqueueEvaluation(ctx, userID); err != nil {
			s.logger.Error("Failed to enqueue evaluation", zap.Int("user_id", userID), zap.Error(err))
			continue
		}
		queued++
	}

	s.logger.Info("Queued achievement re-evaluations",
		zap.String("run_id", middlewares.GetRequestID(ctx)),
		zap.Int("users", len(userIDs)),
		zap.Int("queued", queued),
	)
	return queued
}
