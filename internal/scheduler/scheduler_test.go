package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingDeactivator struct {
	calls atomic.Int64
}

func (d *countingDeactivator) DeactivateEnded(ctx context.Context, now time.Time) (int64, error) {
	d.calls.Add(1)
	return 0, nil
}

func TestRun_SweepsImmediatelyAndOnTick(t *testing.T) {
	d := &countingDeactivator{}
	s := New(d, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return d.calls.Load() >= 3 },
		time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestNew_DefaultsInterval(t *testing.T) {
	s := New(&countingDeactivator{}, 0)
	assert.Equal(t, time.Hour, s.interval)
}
