package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClockAdvances(t *testing.T) {
	c := NewStepClock(time.Time{}, time.Second)

	assert.Equal(t, DefaultStart, c.Now())
	assert.Equal(t, DefaultStart.Add(time.Second), c.Now())
	assert.Equal(t, DefaultStart.Add(2*time.Second), c.Now())
}

func TestStepClockReset(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStepClock(start, time.Minute)
	c.Now()
	c.Now()

	c.Reset()
	assert.Equal(t, start, c.Now())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2021, 6, 1, 8, 30, 0, 0, time.UTC)
	c := NewFixedClock(at)
	for i := 0; i < 3; i++ {
		assert.Equal(t, at, c.Now())
	}
}

func TestStepClockConcurrentReadsAreDistinct(t *testing.T) {
	c := NewStepClock(time.Time{}, time.Millisecond)
	const n = 50

	var mu sync.Mutex
	seen := make(map[time.Time]bool)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts := c.Now()
			mu.Lock()
			seen[ts] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestFixedIDGenerator(t *testing.T) {
	assert.Equal(t, "run-1", NewFixedIDGenerator("run-1").Generate())
	assert.Equal(t, "test-run-default", NewFixedIDGenerator("").Generate())
}
