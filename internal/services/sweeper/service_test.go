package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (s *stubStore) DeleteCompletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted, s.err
}

func (s *stubStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cutoffs)
}

func TestSweepOnce_CutoffUsesRetention(t *testing.T) {
	store := &stubStore{deleted: 42}
	s := New(store, Config{Retention: 90 * 24 * time.Hour})

	deleted, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)

	require.Len(t, store.cutoffs, 1)
	wantCutoff := time.Now().Add(-90 * 24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, store.cutoffs[0], time.Minute)
}

func TestSweepOnce_Error(t *testing.T) {
	store := &stubStore{err: errors.New("db down")}
	s := New(store, Config{})

	_, err := s.SweepOnce(context.Background())
	assert.Error(t, err)
}

func TestRun_SweepsOnTickUntilCancelled(t *testing.T) {
	store := &stubStore{}
	s := New(store, Config{Retention: time.Hour, Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	require.Eventually(t, func() bool { return store.calls() >= 2 }, time.Second, time.Millisecond)
	cancel()

	// After cancellation no further sweeps happen.
	time.Sleep(20 * time.Millisecond)
	calls := store.calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, store.calls())
}

func TestNew_Defaults(t *testing.T) {
	s := New(&stubStore{}, Config{})
	assert.Equal(t, DefaultRetention, s.config.Retention)
	assert.Equal(t, DefaultInterval, s.config.Interval)
}
