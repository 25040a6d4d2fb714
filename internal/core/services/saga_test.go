package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_AbortUndoesInReverse(t *testing.T) {
	var order []string
	sg := newSaga("test")
	sg.done("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	sg.done("second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("undo failed")
	})
	sg.done("third", func(context.Context) error {
		order = append(order, "third")
		return nil
	})

	cause := errors.New("step four failed")
	err := sg.abort(context.Background(), cause)
	assert.Equal(t, cause, err)
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestSaga_UndoRunsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var undoErr error
	sg := newSaga("test")
	sg.done("step", func(ctx context.Context) error {
		undoErr = ctx.Err()
		return nil
	})
	_ = sg.abort(ctx, errors.New("boom"))
	assert.NoError(t, undoErr)
}

func TestWorkflowLock_Serializes(t *testing.T) {
	lock := NewWorkflowLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lock.Do(func() error {
				n := counter
				counter = n + 1
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)

	want := errors.New("inner")
	require.ErrorIs(t, lock.Do(func() error { return want }), want)
}

func TestIssue_ConcurrentRequestsIssueOnce(t *testing.T) {
	f := newFixture(t)
	key := f.addKey(t, "M-101", "A")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.assignments.Issue(f.ctx, &IssueKeyInput{KeyID: key.ID, PersonnelID: "u1", DueDate: "2025-03-12"})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	n, err := f.repos.Assignments.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
