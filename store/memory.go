// Package store provides RunStore implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	runs map[string]manning.Run
}

var _ manning.RunStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{runs: make(map[string]manning.Run)}
}

// SaveRun stores run, replacing any run with the same ID.
func (m *Memory) SaveRun(_ context.Context, run manning.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*manning.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	return &run, nil
}

func (m *Memory) ListRuns(_ context.Context) ([]manning.RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]manning.RunSummary, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteRun(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[id]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	delete(m.runs, id)
	return nil
}
