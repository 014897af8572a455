package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMarker struct {
	mu    sync.Mutex
	calls []time.Time
	ids   []string
	err   error
}

func (f *fakeMarker) MarkConvertedWon(_ context.Context, at time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, at)
	return f.ids, f.err
}

func (f *fakeMarker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestReconcile_ReturnsTouchedCount(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	m := &fakeMarker{ids: []string{"L1", "L2"}}
	w := NewReconcileWorker(m, time.Minute)
	w.now = func() time.Time { return fixed }

	assert.Equal(t, 2, w.reconcile(context.Background()))
	assert.Equal(t, []time.Time{fixed}, m.calls)
}

func TestReconcile_ErrorIsLoggedNotFatal(t *testing.T) {
	m := &fakeMarker{err: errors.New("db down")}
	w := NewReconcileWorker(m, time.Minute)

	assert.Equal(t, 0, w.reconcile(context.Background()))
}

func TestStart_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	m := &fakeMarker{}
	w := NewReconcileWorker(m, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
