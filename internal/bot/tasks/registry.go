package tasks

import "context"

// ScheduledTaskFunc is the signature shared by all scheduled tasks. The
// scheduler's context must be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// ScheduledTask pairs a task function with its cron schedule.
type ScheduledTask struct {
	Schedule string
	Run      ScheduledTaskFunc
}

// RegisterAllTasks returns the map of all scheduled tasks, keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTask {
	tasks := map[string]ScheduledTask{
		"sql_maintenance": {
			Schedule: deps.Config.Database.MaintenanceCron,
			Run:      newSQLMaintenanceTask(deps),
		},
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
