package app

import (
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
)

func TestWaitTimeout(t *testing.T) {
	t.Run("returns once the workers stop", func(t *testing.T) {
		release := make(chan struct{})
		var workers conc.WaitGroup
		workers.Go(func() { <-release })

		time.AfterFunc(10*time.Millisecond, func() { close(release) })
		assert.True(t, waitTimeout(workers.Wait, time.Second))
	})

	t.Run("gives up on a stuck worker", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		var workers conc.WaitGroup
		workers.Go(func() { <-release })

		started := time.Now()
		assert.False(t, waitTimeout(workers.Wait, 20*time.Millisecond))
		assert.Less(t, time.Since(started), time.Second)
	})
}

func TestRecoverWorkers_SwallowsPanic(t *testing.T) {
	var workers conc.WaitGroup
	workers.Go(func() { panic("listener bug") })

	assert.NotPanics(t, func() { recoverWorkers(&workers) })
}
