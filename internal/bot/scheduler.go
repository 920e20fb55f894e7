package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"citymapbot/internal/bot/tasks"
)

// Scheduler manages the bot's scheduled tasks using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	taskMap   map[string]tasks.ScheduledTask
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler for the given task map.
func NewScheduler(logger *slog.Logger, taskMap map[string]tasks.ScheduledTask) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		taskMap:   taskMap,
	}, nil
}

// Start schedules all tasks and starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	for name, task := range s.taskMap {
		if task.Schedule == "" {
			s.logger.Warn("Task has empty schedule, skipping", "task_name", name)
			continue
		}

		run := task.Run
		_, err := s.scheduler.NewJob(
			gocron.CronJob(task.Schedule, false),
			gocron.NewTask(func(ctx context.Context, taskName string) {
				s.logger.Info("Running scheduled task", "task_name", taskName)
				start := time.Now()
				if taskErr := run(ctx); taskErr != nil {
					s.logger.Error("Scheduled task failed", "task_name", taskName, "error", taskErr)
				}
				s.logger.Info("Finished scheduled task", "task_name", taskName, "duration", time.Since(start))
			}, context.Background(), name),
			gocron.WithName(name),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", name, "schedule", task.Schedule, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", name, "schedule", task.Schedule)
		scheduled++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduled)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped")
	}

	s.running = false
	return err
}
