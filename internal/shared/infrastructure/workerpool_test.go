package infrastructure

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	var done int64
	wp := NewWorkerPool(4)
	wp.Start()

	for i := 0; i < 100; i++ {
		require.NoError(t, wp.Submit(func() error {
			atomic.AddInt64(&done, 1)
			return nil
		}))
	}

	require.NoError(t, wp.Wait())
	assert.Equal(t, int64(100), atomic.LoadInt64(&done))
}

func TestWorkerPool_CollectsAllErrors(t *testing.T) {
	errA := errors.New("supplier master unreadable")
	errB := errors.New("goods receipts unreadable")

	err := RunParallel(2,
		func() error { return errA },
		func() error { return nil },
		func() error { return errB },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestWorkerPool_RecoversPanics(t *testing.T) {
	err := RunParallel(1, func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	wp := NewWorkerPool(1)
	wp.Start()
	wp.Stop()

	assert.ErrorIs(t, wp.Submit(func() error { return nil }), ErrPoolStopped)
}

// ========================================
// Benchmarks
// ========================================

func benchmarkPool(b *testing.B, workers int) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tasks := make([]Task, 64)
		for j := range tasks {
			tasks[j] = func() error {
				sum := 0
				for k := 0; k < 1000; k++ {
					sum += k
				}
				_ = sum
				return nil
			}
		}
		_ = RunParallel(workers, tasks...)
	}
}

func BenchmarkWorkerPool_1Worker(b *testing.B)  { benchmarkPool(b, 1) }
func BenchmarkWorkerPool_3Workers(b *testing.B) { benchmarkPool(b, 3) }
func BenchmarkWorkerPool_8Workers(b *testing.B) { benchmarkPool(b, 8) }
