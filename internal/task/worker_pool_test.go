package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskQueue implements TaskQueueReader for testing
type mockTaskQueue struct {
	ch chan Task
}

func newMockTaskQueue() *mockTaskQueue {
	return &mockTaskQueue{ch: make(chan Task, 10)}
}

func (m *mockTaskQueue) GetChannel() <-chan Task {
	return m.ch
}

func TestNewWorkerPool(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	taskQueue := newMockTaskQueue()

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 5}, log)
	assert.Equal(t, 5, pool.workerCount)
	assert.Nil(t, pool.errorHandler)

	for _, count := range []int{0, -5} {
		pool = NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: count}, log)
		assert.Equal(t, 1, pool.workerCount)
	}
	logger.AssertLogContains(t, buf, "invalid worker count specified")

	assert.Equal(t, 2, DefaultWorkerPoolConfig().WorkerCount)
}

func TestWorkerPool_ProcessTask_Success(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	taskQueue := newMockTaskQueue()

	completed := make(chan struct{})
	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		close(completed)
		return nil
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, log)
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case <-completed:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for task to complete")
	}
}

func TestWorkerPool_ProcessTask_Error(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	taskQueue := newMockTaskQueue()

	expectedErr := errors.New("smtp unavailable")
	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		return expectedErr
	}

	errorHandled := make(chan error, 1)
	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, log)
	pool.SetErrorHandler(func(task Task, err error) {
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case err := <-errorHandled:
		assert.Equal(t, expectedErr, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for error handler")
	}
}

func TestWorkerPool_ProcessTask_Panic(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	taskQueue := newMockTaskQueue()

	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		panic("template exploded")
	}

	errorHandled := make(chan error, 1)
	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, log)
	pool.SetErrorHandler(func(task Task, err error) {
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case err := <-errorHandled:
		assert.Contains(t, err.Error(), "panic")
		assert.Contains(t, err.Error(), "template exploded")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for error handler after panic")
	}
}

func TestWorkerPool_StopCancelsRunningTask(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	taskQueue := newMockTaskQueue()

	started := make(chan struct{})
	canceled := make(chan struct{})
	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, log)
	pool.Start()
	taskQueue.ch <- task

	select {
	case <-started:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for task to start")
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-canceled:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for task to be canceled")
	}
	select {
	case <-stopped:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for worker pool to stop")
	}
}

func TestWorkerPool_WaitDrainsClosedQueue(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	queue := NewTaskQueue(10, log)

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		task := newMockTask()
		task.execFn = func(ctx context.Context) error {
			done.Add(1)
			return nil
		}
		require.NoError(t, queue.Enqueue(task))
	}

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 2}, log)
	pool.Start()
	queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, pool.Wait(ctx))
	assert.Equal(t, int32(5), done.Load())
}

func TestWorkerPool_WaitGivesUpAtDeadline(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	queue := NewTaskQueue(1, log)

	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	require.NoError(t, queue.Enqueue(task))

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, log)
	pool.Start()
	queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, pool.Wait(ctx), context.DeadlineExceeded)
}
