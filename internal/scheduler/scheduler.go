// Package scheduler runs a node's cooperative task set. Tasks only give way to
// each other at explicit suspension points: a sleep, a render lock
// acquisition, or waiting on I/O.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Task is one long-running activity of a node.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler owns a set of tasks and runs them until the context ends or one
// of them fails.
type Scheduler struct {
	tasks  []Task
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Go adds a task. Tasks added after Run has started are ignored.
func (s *Scheduler) Go(name string, run func(ctx context.Context) error) {
	s.tasks = append(s.tasks, Task{Name: name, Run: run})
}

// Tasks returns the registered task names in order.
func (s *Scheduler) Tasks() []string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.Name
	}
	return names
}

// Run starts every task and blocks until all have returned. The first task
// error cancels the others and is returned; a plain context cancellation
// returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range s.tasks {
		g.Go(func() error {
			s.logger.Debug("task started", "task", t.Name)
			err := t.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("task failed", "task", t.Name, "error", err)
				return fmt.Errorf("%s: %w", t.Name, err)
			}
			s.logger.Debug("task stopped", "task", t.Name)
			return nil
		})
	}
	return g.Wait()
}
