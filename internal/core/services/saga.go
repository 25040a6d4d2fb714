package services

import (
	"context"
	"log"
	"sync"

	"keytrack/internal/pkg/metrics"
)

// WorkflowLock serializes multi-record transitions and the overdue sweep
// within one process.
type WorkflowLock struct {
	mu sync.Mutex
}

// NewWorkflowLock creates a new lock
func NewWorkflowLock() *WorkflowLock {
	return &WorkflowLock{}
}

// Do runs fn while holding the lock
func (l *WorkflowLock) Do(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// saga records how to undo each completed step of a workflow
type saga struct {
	workflow string
	steps    []compensation
}

func newSaga(workflow string) *saga {
	return &saga{workflow: workflow}
}

// done registers the undo action of a step that has just succeeded
func (s *saga) done(step string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{step: step, undo: undo})
}

// abort undoes completed steps in reverse order and returns cause.
// Undo runs even when ctx is already cancelled.
func (s *saga) abort(ctx context.Context, cause error) error {
	ctx = context.WithoutCancel(ctx)

	log.Printf("⚠️ %s failed, rolling back %d step(s): %v", s.workflow, len(s.steps), cause)
	for i := len(s.steps) - 1; i >= 0; i-- {
		c := s.steps[i]
		if err := c.undo(ctx); err != nil {
			metrics.SagaCompensations.WithLabelValues(s.workflow, "failed").Inc()
			log.Printf("❌ %s: undo %s failed: %v", s.workflow, c.step, err)
			continue
		}
		metrics.SagaCompensations.WithLabelValues(s.workflow, "ok").Inc()
	}
	return cause
}
