package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllSubmittedJobs(t *testing.T) {
	pool := New(4, 8)
	var count int64
	for i := 0; i < 100; i++ {
		pool.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	pool.Close()
	assert.Equal(t, int64(100), count)
}

func TestPoolCloseIsIdempotent(t *testing.T) {
	pool := New(2, 2)
	pool.Submit(func() {})
	pool.Close()
	assert.NotPanics(t, func() { pool.Close() })
}

func TestNewClampsNonPositiveSizes(t *testing.T) {
	pool := New(0, 0)
	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	<-done
	pool.Close()
}

func TestTrySubmitReturnsFalseWhenQueueFull(t *testing.T) {
	pool := New(1, 1)
	block := make(chan struct{})
	pool.Submit(func() { <-block })

	// Queue capacity is 1 and the lone worker is blocked in the job
	// above, so the queue fills after one more submission.
	pool.Submit(func() {})
	ok := pool.TrySubmit(func() {})
	assert.False(t, ok)

	close(block)
	pool.Close()
}

func TestRunIndexedCollectsAllIndices(t *testing.T) {
	pool := New(4, 16)
	defer pool.Close()

	seen := make([]bool, 20)
	var mu sync.Mutex
	RunIndexed(pool, len(seen), func(i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})
	for i, v := range seen {
		assert.True(t, v, "index %d not visited", i)
	}
}
