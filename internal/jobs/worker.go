package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/taghive/taghive-backend/internal/logger"
)

// Task is one unit of background work. Run receives the worker's context,
// which is canceled on shutdown.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Worker executes fire-and-forget tasks off the request path. Submitting
// never blocks: a full queue rejects the task, and task failures are logged,
// never surfaced to the submitter.
type Worker struct {
	log   *logger.Logger
	tasks chan Task
	done  chan struct{}
}

func NewWorker(baseLog *logger.Logger, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Worker{
		log:   baseLog.With("service", "JobWorker"),
		tasks: make(chan Task, queueSize),
		done:  make(chan struct{}),
	}
}

// Start runs the worker loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case task := <-w.tasks:
				w.run(ctx, task)
			}
		}
	}()
}

func (w *Worker) run(ctx context.Context, task Task) {
	start := time.Now()
	if err := task.Run(ctx); err != nil {
		w.log.Warn("background task failed",
			"task", task.Name,
			"elapsed", time.Since(start).String(),
			"error", err,
		)
		return
	}
	w.log.Debug("background task done", "task", task.Name, "elapsed", time.Since(start).String())
}

// Submit enqueues the task without blocking.
func (w *Worker) Submit(task Task) error {
	if task.Run == nil {
		return fmt.Errorf("task %q has no body", task.Name)
	}
	select {
	case w.tasks <- task:
		return nil
	default:
		return fmt.Errorf("job queue full, dropping task %q", task.Name)
	}
}

// Wait blocks until the loop started by Start has exited.
func (w *Worker) Wait() {
	<-w.done
}
