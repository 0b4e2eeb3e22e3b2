package main

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolProcessesMessages(t *testing.T) {
	var processed atomic.Int64
	var done sync.WaitGroup
	done.Add(3)

	pool := NewWorkerPool(context.Background(), 2, 10, func(ctx context.Context, msg []byte) error {
		defer done.Done()
		processed.Add(1)
		return nil
	})

	for i := 0; i < 3; i++ {
		assert.True(t, pool.Submit(context.Background(), &nats.Msg{Data: []byte("{}")}))
	}

	done.Wait()
	pool.Stop()
	pool.Wait()

	assert.Equal(t, int64(3), processed.Load())
}

func TestWorkerPoolDefaults(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0, 0, func(ctx context.Context, msg []byte) error {
		return nil
	})

	assert.Equal(t, 100, cap(pool.jobs))

	pool.Stop()
	pool.Wait()
}
