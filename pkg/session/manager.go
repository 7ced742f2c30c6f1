package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
	"github.com/chainsafe/bridge-tracker/pkg/trackstore"
)

const persistTimeout = 5 * time.Second

// ErrSessionNotFound is returned for message ids that were never tracked.
var ErrSessionNotFound = errors.New("tracking session not found")

// OutcomeStore persists finished sessions. trackstore's postgres store
// implements it.
type OutcomeStore interface {
	SaveOutcome(ctx context.Context, o *trackstore.Outcome) error
	GetOutcome(ctx context.Context, messageID string) (*trackstore.Outcome, error)
	ListOutcomes(ctx context.Context, limit int) ([]*trackstore.Outcome, error)
}

var _ Service = (*Manager)(nil)

// Manager keeps one Adapter per message id so concurrent requests for the
// same id share a single polling run.
type Manager struct {
	tracker Tracker
	store   OutcomeStore
	tick    time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	adapters map[string]*Adapter
}

// NewManager creates a session manager. store may be nil.
func NewManager(t Tracker, store OutcomeStore, cfg *config.SessionConfig, logger *zap.Logger) *Manager {
	return &Manager{
		tracker:  t,
		store:    store,
		tick:     cfg.TickInterval,
		logger:   logger,
		adapters: make(map[string]*Adapter),
	}
}

// Start begins tracking id unless a session for it is already active.
// started is false when an active session was reused.
func (m *Manager) Start(id string) (snap Snapshot, started bool) {
	m.mu.Lock()
	a := m.adapterLocked(id, true)
	started = a.Start(id)
	m.mu.Unlock()
	return a.Snapshot(), started
}

// Get returns the session state for id. When the id has no in-memory
// session, the persisted outcome is returned if a store is configured.
func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	if a := m.adapter(id, false); a != nil {
		return a.Snapshot(), nil
	}
	if m.store == nil {
		return Snapshot{}, ErrSessionNotFound
	}

	o, err := m.store.GetOutcome(ctx, id)
	if err != nil {
		if errors.Is(err, trackstore.ErrOutcomeNotFound) {
			return Snapshot{}, ErrSessionNotFound
		}
		return Snapshot{}, err
	}
	return fromOutcome(o), nil
}

// History returns the most recently finished sessions, newest first. It is
// empty when no store is configured.
func (m *Manager) History(ctx context.Context, limit int) ([]*trackstore.Outcome, error) {
	if m.store == nil {
		return []*trackstore.Outcome{}, nil
	}
	return m.store.ListOutcomes(ctx, limit)
}

// Stop deactivates the session for id.
func (m *Manager) Stop(id string) (Snapshot, error) {
	a := m.adapter(id, false)
	if a == nil {
		return Snapshot{}, ErrSessionNotFound
	}
	a.Stop()
	return a.Snapshot(), nil
}

// Reset discards the session for id.
func (m *Manager) Reset(id string) (Snapshot, error) {
	a := m.adapter(id, false)
	if a == nil {
		return Snapshot{}, ErrSessionNotFound
	}
	a.Reset()
	return a.Snapshot(), nil
}

// Shutdown stops every active session and waits for their goroutines.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	adapters := make([]*Adapter, 0, len(m.adapters))
	for _, a := range m.adapters {
		adapters = append(adapters, a)
	}
	m.mu.Unlock()

	for _, a := range adapters {
		a.Stop()
	}
	for _, a := range adapters {
		a.Wait()
	}
	m.logger.Info("Tracking sessions stopped", zap.Int("sessions", len(adapters)))
}

func (m *Manager) adapter(id string, create bool) *Adapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adapterLocked(id, create)
}

func (m *Manager) adapterLocked(id string, create bool) *Adapter {
	a, ok := m.adapters[id]
	if !ok && create {
		var created *Adapter
		created = NewAdapter(m.tracker, m.logger,
			WithTickInterval(m.tick),
			OnFinish(func(s Snapshot) { m.finish(id, created, s) }))
		m.adapters[id] = created
		a = created
	}
	return a
}

// finish persists a naturally finished session and, once the outcome is
// stored, drops the adapter so Get is served from the store. Without a store,
// or when the save fails, the adapter stays in memory.
func (m *Manager) finish(id string, a *Adapter, s Snapshot) {
	if !m.persist(s) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adapters[id] == a && !a.Snapshot().Active {
		delete(m.adapters, id)
	}
}

func (m *Manager) persist(s Snapshot) bool {
	if m.store == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := m.store.SaveOutcome(ctx, toOutcome(s)); err != nil {
		m.logger.Error("Failed to persist tracking outcome",
			zap.String("message_id", s.MessageID),
			zap.Error(err))
		return false
	}
	return true
}

func toOutcome(s Snapshot) *trackstore.Outcome {
	o := &trackstore.Outcome{
		MessageID:      s.MessageID,
		SessionID:      s.SessionID,
		Status:         tracker.StatusPending,
		Attempts:       s.Attempts,
		ElapsedSeconds: s.ElapsedSeconds,
	}
	if s.StartedAt != nil {
		o.StartedAt = *s.StartedAt
	}
	if s.FinishedAt != nil {
		o.FinishedAt = *s.FinishedAt
	}
	if r := s.LastResult; r != nil {
		o.Status = r.Status
		o.DestTxHash = r.DestinationTxHash
		o.Synthetic = r.IsSynthetic
		o.Error = r.Error
	}
	if s.Phase == PhaseFailed && o.Status != tracker.StatusFailed {
		o.Status = tracker.StatusFailed
		o.Error = s.Message
	}
	return o
}

func fromOutcome(o *trackstore.Outcome) Snapshot {
	s := Snapshot{
		SessionID:      o.SessionID,
		MessageID:      o.MessageID,
		ElapsedSeconds: o.ElapsedSeconds,
		Attempts:       o.Attempts,
		LastResult: &tracker.Result{
			Status:            o.Status,
			DestinationTxHash: o.DestTxHash,
			Error:             o.Error,
			IsSynthetic:       o.Synthetic,
		},
	}
	if !o.StartedAt.IsZero() {
		started := o.StartedAt
		s.StartedAt = &started
	}
	if !o.FinishedAt.IsZero() {
		finished := o.FinishedAt
		s.FinishedAt = &finished
	}

	switch o.Status {
	case tracker.StatusDelivered:
		s.Phase, s.Message = PhaseDelivered, msgDelivered
	case tracker.StatusFailed:
		s.Phase, s.Message = PhaseFailed, msgFailed
		if o.Error != "" {
			s.Message = o.Error
		}
	default:
		s.Phase, s.Message = PhaseSearching, o.Error
	}
	return s
}
