/*
retention.go - Automated run-history retention

PURPOSE:
  Periodically deletes stored runs older than a maximum age so the run
  history does not grow without bound on a long-lived server.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Lists run summaries (cheap, no report decoding) and deletes the old ones
  - A failed delete is logged and retried on the next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - MaxAge: Runs created before now-MaxAge are deleted
  - Enabled: Whether the scheduler is active (default: MaxAge > 0)

USAGE:
  rs := NewRetentionScheduler(store, 30*24*time.Hour, log)
  rs.Start()
  // ... later
  rs.Stop()
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/manning-engine/manning"
)

// RetentionScheduler deletes runs older than MaxAge.
type RetentionScheduler struct {
	Store         manning.RunStore
	MaxAge        time.Duration
	CheckInterval time.Duration
	Enabled       bool
	Log           zerolog.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a new scheduler. A zero maxAge disables it.
func NewRetentionScheduler(store manning.RunStore, maxAge time.Duration, log zerolog.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		Store:         store,
		MaxAge:        maxAge,
		CheckInterval: time.Hour,
		Enabled:       maxAge > 0,
		Log:           log.With().Str("component", "retention").Logger(),
		now:           time.Now,
	}
}

// Start begins the scheduler. A stopped scheduler can be started again.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Log.Info().Msg("disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)
	go rs.run(rs.ticker, rs.stop)

	rs.Log.Info().Dur("interval", rs.CheckInterval).Dur("max_age", rs.MaxAge).Msg("started")
}

// Stop stops the scheduler and waits for an in-flight sweep.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Log.Info().Msg("stopped")
	}
}

func (rs *RetentionScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			rs.Sweep(context.Background())
		case <-stop:
			return
		}
	}
}

// Sweep deletes every run older than MaxAge and returns how many it removed.
func (rs *RetentionScheduler) Sweep(ctx context.Context) int {
	cutoff := rs.now().Add(-rs.MaxAge)

	runs, err := rs.Store.ListRuns(ctx)
	if err != nil {
		rs.Log.Error().Err(err).Msg("listing runs")
		return 0
	}

	deleted := 0
	for _, r := range runs {
		if !r.CreatedAt.Before(cutoff) {
			continue
		}
		if err := rs.Store.DeleteRun(ctx, r.ID); err != nil {
			rs.Log.Error().Err(err).Str("run_id", r.ID).Msg("deleting run")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		rs.Log.Info().Int("deleted", deleted).Time("cutoff", cutoff).Msg("sweep completed")
	}
	return deleted
}
