package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// sampleTasks are inserted by the -seed flag.
func sampleTasks() []domain.CreateTaskInput {
	describe := func(s string) *string { return &s }
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	return []domain.CreateTaskInput{
		{
			Title:       "Complete project documentation",
			Description: describe("Write comprehensive documentation for the task management system"),
			Status:      domain.TaskStatusInProgress,
			DueDate:     day(2024, time.December, 31),
		},
		{
			Title:       "Review code changes",
			Description: describe("Review and approve pending pull requests"),
			Status:      domain.TaskStatusPending,
			DueDate:     day(2024, time.December, 25),
		},
		{
			Title:       "Deploy to production",
			Description: describe("Deploy the latest version to the production environment"),
			Status:      domain.TaskStatusCompleted,
			DueDate:     day(2024, time.December, 20),
		},
	}
}

// seedTasks creates the sample tasks through the service so the snapshot
// cache stays coherent.
func seedTasks(ctx context.Context, tasks service.TaskService, logger *slog.Logger) error {
	for _, input := range sampleTasks() {
		task, err := tasks.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to seed task %q: %w", input.Title, err)
		}
		logger.Info("Seeded task", "task_id", task.ID.String(), "title", task.Title)
	}
	return nil
}
