package session

import (
	"context"
	"sort"
	"sync"

	"github.com/chainsafe/bridge-tracker/pkg/message"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
	"github.com/chainsafe/bridge-tracker/pkg/trackstore"
)

// MockTracker is a mock implementation of Tracker
type MockTracker struct {
	TrackFunc func(ctx context.Context, id string, onUpdate tracker.UpdateFunc) (tracker.Result, error)

	mu    sync.Mutex
	calls int
}

func (m *MockTracker) Track(ctx context.Context, id string, onUpdate tracker.UpdateFunc) (tracker.Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, id, onUpdate)
	}
	return tracker.Result{Status: tracker.StatusPending}, nil
}

func (m *MockTracker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockFetcher is a mock implementation of tracker.Fetcher
type MockFetcher struct {
	FetchMessageFunc func(ctx context.Context, id string) (*message.Record, error)
}

func (m *MockFetcher) FetchMessage(ctx context.Context, id string) (*message.Record, error) {
	if m.FetchMessageFunc != nil {
		return m.FetchMessageFunc(ctx, id)
	}
	return nil, nil
}

// MockOutcomeStore is an in-memory implementation of OutcomeStore
type MockOutcomeStore struct {
	SaveOutcomeFunc func(ctx context.Context, o *trackstore.Outcome) error

	mu       sync.Mutex
	outcomes map[string]*trackstore.Outcome
}

func (m *MockOutcomeStore) SaveOutcome(ctx context.Context, o *trackstore.Outcome) error {
	if m.SaveOutcomeFunc != nil {
		if err := m.SaveOutcomeFunc(ctx, o); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]*trackstore.Outcome)
	}
	m.outcomes[o.MessageID] = o
	return nil
}

func (m *MockOutcomeStore) GetOutcome(_ context.Context, messageID string) (*trackstore.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.outcomes[messageID]
	if !ok {
		return nil, trackstore.ErrOutcomeNotFound
	}
	return o, nil
}

func (m *MockOutcomeStore) ListOutcomes(_ context.Context, limit int) ([]*trackstore.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*trackstore.Outcome, 0, len(m.outcomes))
	for _, o := range m.outcomes {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
