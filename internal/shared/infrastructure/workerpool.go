package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolStopped is returned by Submit once the pool has been stopped.
var ErrPoolStopped = errors.New("worker pool is stopped")

// Task is a unit of work run by a WorkerPool.
type Task func() error

// WorkerPool runs tasks on a fixed number of goroutines and keeps every task error.
type WorkerPool struct {
	workerCount int
	tasks       chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool creates a pool; call Start before Submit.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		tasks:       make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			if err := wp.run(task); err != nil {
				wp.mu.Lock()
				wp.errs = append(wp.errs, err)
				wp.mu.Unlock()
			}
		}
	}
}

func (wp *WorkerPool) run(task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return task()
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Submit queues a task, blocking while the buffer is full.
func (wp *WorkerPool) Submit(task Task) error {
	if wp.ctx.Err() != nil {
		return ErrPoolStopped
	}
	select {
	case <-wp.ctx.Done():
		return ErrPoolStopped
	case wp.tasks <- task:
		return nil
	}
}

// Wait closes the queue and blocks until every submitted task has run.
// It returns all task errors joined, or nil.
func (wp *WorkerPool) Wait() error {
	close(wp.tasks)
	wp.wg.Wait()
	return wp.Err()
}

// Stop cancels the pool without draining the queue.
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()
}

// Err returns the task errors collected so far.
func (wp *WorkerPool) Err() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return errors.Join(wp.errs...)
}

// RunParallel runs tasks on a short-lived pool and waits for all of them.
func RunParallel(workerCount int, tasks ...Task) error {
	wp := NewWorkerPool(workerCount)
	wp.Start()
	for _, task := range tasks {
		if err := wp.Submit(task); err != nil {
			wp.Stop()
			return err
		}
	}
	return wp.Wait()
}
