// Package sweeper periodically deletes completed ledger records older
// than the retention window. It runs off the request path and never
// touches wallets or non-terminal records.
package sweeper

import (
	"context"
	"log"
	"time"
)

// Store is the subset of the transaction repository the sweeper needs.
type Store interface {
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds sweeper tuning. Zero values fall back to defaults.
type Config struct {
	Retention time.Duration
	Interval  time.Duration
}

// Default sweeper configuration
const (
	DefaultRetention = 90 * 24 * time.Hour
	DefaultInterval  = 24 * time.Hour
)

type Sweeper struct {
	store  Store
	config Config
}

func New(store Store, config Config) *Sweeper {
	if store == nil {
		panic("store is required")
	}
	if config.Retention <= 0 {
		config.Retention = DefaultRetention
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Sweeper{store: store, config: config}
}

// Run sweeps on every interval tick until the context is cancelled.
// Sweep failures are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				log.Printf("retention sweep failed: %v", err)
			}
		}
	}
}

// SweepOnce deletes completed transactions older than the retention
// window and returns how many were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.config.Retention)
	deleted, err := s.store.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("cleaned up %d old transactions", deleted)
	return deleted, nil
}
