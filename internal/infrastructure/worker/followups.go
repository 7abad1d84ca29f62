package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/domain/course"
)

// TaskKind identifies a follow-up task type
type TaskKind string

const (
	// TaskCreditRequirements recomputes a course's credit requirements
	TaskCreditRequirements TaskKind = "credit_requirements"
	// TaskSettingsChanged fans the change out to interested listeners
	TaskSettingsChanged TaskKind = "settings_changed"
)

// Task is one queued follow-up job
type Task struct {
	Kind        TaskKind
	CourseKey   course.Key
	ChangedKeys []string
	EnqueuedAt  time.Time
}

// CreditUpdater recomputes a course's credit requirements from its
// current settings.
type CreditUpdater interface {
	UpdateCreditRequirements(ctx context.Context, key course.Key) error
}

// ChangeListener receives settings change notifications.
type ChangeListener interface {
	SettingsChanged(ctx context.Context, key course.Key, changedKeys []string) error
}

// FollowupWorkerConfig holds configuration for the follow-up worker
type FollowupWorkerConfig struct {
	QueueSize       int
	ShutdownTimeout time.Duration
}

// DefaultFollowupWorkerConfig returns default configuration
func DefaultFollowupWorkerConfig() FollowupWorkerConfig {
	return FollowupWorkerConfig{
		QueueSize:       256,
		ShutdownTimeout: 10 * time.Second,
	}
}

// FollowupWorker runs post-update side effects off the request path.
// It implements the settings service's Followups interface: enqueue
// calls never block, and a full queue drops the task with a warning
// rather than stalling an HTTP response.
type FollowupWorker struct {
	tasks     chan Task
	config    FollowupWorkerConfig
	credit    CreditUpdater
	listeners []ChangeListener
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// FollowupWorkerOption is a functional option for configuring the worker
type FollowupWorkerOption func(*FollowupWorker)

// WithCreditUpdater sets the credit requirements handler
func WithCreditUpdater(u CreditUpdater) FollowupWorkerOption {
	return func(w *FollowupWorker) {
		w.credit = u
	}
}

// WithChangeListener registers a settings change listener
func WithChangeListener(l ChangeListener) FollowupWorkerOption {
	return func(w *FollowupWorker) {
		w.listeners = append(w.listeners, l)
	}
}

// NewFollowupWorker creates a follow-up worker
func NewFollowupWorker(config FollowupWorkerConfig, logger *zap.Logger, opts ...FollowupWorkerOption) *FollowupWorker {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultFollowupWorkerConfig().QueueSize
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultFollowupWorkerConfig().ShutdownTimeout
	}

	w := &FollowupWorker{
		tasks:  make(chan Task, config.QueueSize),
		config: config,
		logger: logger,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start starts the background processing
func (w *FollowupWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.processLoop(ctx)

	w.logger.Info("follow-up worker started",
		zap.Int("queue_size", w.config.QueueSize),
	)
}

// Stop drains the queue and stops the worker. Tasks still queued after
// the shutdown timeout are dropped.
func (w *FollowupWorker) Stop() {
	close(w.tasks)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("follow-up worker stopped")
	case <-time.After(w.config.ShutdownTimeout):
		if w.cancel != nil {
			w.cancel()
		}
		w.logger.Warn("follow-up worker stop timed out, dropping queued tasks")
		<-done
	}
}

// UpdateCreditRequirements queues a credit requirements refresh
func (w *FollowupWorker) UpdateCreditRequirements(key course.Key) {
	w.enqueue(Task{
		Kind:       TaskCreditRequirements,
		CourseKey:  key,
		EnqueuedAt: time.Now(),
	})
}

// NotifySettingsChanged queues a change notification
func (w *FollowupWorker) NotifySettingsChanged(key course.Key, changedKeys []string) {
	w.enqueue(Task{
		Kind:        TaskSettingsChanged,
		CourseKey:   key,
		ChangedKeys: changedKeys,
		EnqueuedAt:  time.Now(),
	})
}

func (w *FollowupWorker) enqueue(task Task) {
	select {
	case w.tasks <- task:
	default:
		w.logger.Warn("follow-up queue full, dropping task",
			zap.String("kind", string(task.Kind)),
			zap.String("course_key", task.CourseKey.String()),
		)
	}
}

func (w *FollowupWorker) processLoop(ctx context.Context) {
	defer w.wg.Done()

	for task := range w.tasks {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.handle(ctx, task)
	}
}

func (w *FollowupWorker) handle(ctx context.Context, task Task) {
	start := time.Now()

	var err error
	switch task.Kind {
	case TaskCreditRequirements:
		if w.credit != nil {
			err = w.credit.UpdateCreditRequirements(ctx, task.CourseKey)
		}
	case TaskSettingsChanged:
		for _, l := range w.listeners {
			if lerr := l.SettingsChanged(ctx, task.CourseKey, task.ChangedKeys); lerr != nil && err == nil {
				err = lerr
			}
		}
	default:
		w.logger.Warn("unknown follow-up task kind", zap.String("kind", string(task.Kind)))
		return
	}

	if err != nil {
		w.logger.Error("follow-up task failed",
			zap.String("kind", string(task.Kind)),
			zap.String("course_key", task.CourseKey.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	w.logger.Debug("follow-up task completed",
		zap.String("kind", string(task.Kind)),
		zap.String("course_key", task.CourseKey.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
