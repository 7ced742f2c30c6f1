// Package session turns a blocking tracking run into observable,
// restartable state: a phase, an elapsed-time counter and the latest
// result, with explicit stop and reset.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/internal/metrics"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
)

// Phase is the coarse, caller-facing projection of the tracking results.
type Phase string

const (
	PhaseSearching Phase = "searching"
	PhaseFound     Phase = "found"
	PhaseDelivered Phase = "delivered"
	PhaseFailed    Phase = "failed"
)

const (
	msgStarting  = "Starting message tracking..."
	msgFound     = "Message found, waiting for delivery..."
	msgDelivered = "Message delivered! Transaction confirmed."
	msgFailed    = "Message delivery failed."
	msgCompleted = "Tracking completed."
)

// Tracker runs one tracking loop. *tracker.Engine implements it.
type Tracker interface {
	Track(ctx context.Context, id string, onUpdate tracker.UpdateFunc) (tracker.Result, error)
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	SessionID      string          `json:"sessionId,omitempty"`
	MessageID      string          `json:"messageId,omitempty"`
	Active         bool            `json:"active"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	Phase          Phase           `json:"phase"`
	Message        string          `json:"message"`
	Attempts       int             `json:"attempts"`
	LastResult     *tracker.Result `json:"result"`
	StartedAt      *time.Time      `json:"startedAt,omitempty"`
	FinishedAt     *time.Time      `json:"finishedAt,omitempty"`
}

// Terminal reports whether the session ended with delivered or failed.
func (s Snapshot) Terminal() bool {
	return s.Phase == PhaseDelivered || s.Phase == PhaseFailed
}

func initialSnapshot() Snapshot {
	return Snapshot{Phase: PhaseSearching}
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTickInterval sets how often ElapsedSeconds is refreshed.
func WithTickInterval(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.tick = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// OnChange registers a hook called after every start, update, stop, reset
// and finish. Elapsed-time ticks do not trigger it.
func OnChange(fn func(Snapshot)) Option {
	return func(a *Adapter) { a.onChange = fn }
}

// OnFinish registers a hook called once when a run ends on its own, that is
// with a terminal status, a timeout or an error. It is not called after
// Stop or Reset.
func OnFinish(fn func(Snapshot)) Option {
	return func(a *Adapter) { a.onFinish = fn }
}

// Adapter owns a single tracking session. At most one run is active at a
// time; Start while active is a no-op.
type Adapter struct {
	tracker Tracker
	logger  *zap.Logger
	tick    time.Duration
	now     func() time.Time

	onChange func(Snapshot)
	onFinish func(Snapshot)

	mu         sync.Mutex
	state      Snapshot
	seq        uint64
	generation uint64
	cancel     context.CancelFunc

	// notifyMu orders hook calls; snapshots older than delivered are dropped.
	notifyMu  sync.Mutex
	delivered uint64

	wg sync.WaitGroup
}

// NewAdapter creates an idle adapter.
func NewAdapter(t Tracker, logger *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		tracker: t,
		logger:  logger,
		tick:    time.Second,
		now:     time.Now,
		state:   initialSnapshot(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins tracking id. It reports false and does nothing if a session
// is already active.
func (a *Adapter) Start(id string) bool {
	a.mu.Lock()
	if a.state.Active {
		a.mu.Unlock()
		return false
	}

	a.generation++
	gen := a.generation
	startedAt := a.now()
	a.state = Snapshot{
		SessionID: uuid.NewString(),
		MessageID: id,
		Active:    true,
		Phase:     PhaseSearching,
		Message:   msgStarting,
		StartedAt: &startedAt,
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	snap, seq := a.changedLocked()
	a.wg.Add(2)
	a.mu.Unlock()

	metrics.ActiveSessions.Inc()
	a.logger.Info("Tracking session started",
		zap.String("session_id", snap.SessionID),
		zap.String("message_id", id))
	a.notify(snap, seq)

	go a.run(ctx, gen, id)
	go a.countElapsed(ctx, gen, startedAt)
	return true
}

// Stop deactivates the session. A fetch already in flight completes but its
// result is discarded. Stop reports false if no session was active.
func (a *Adapter) Stop() bool {
	a.mu.Lock()
	if !a.state.Active {
		a.mu.Unlock()
		return false
	}
	a.deactivateLocked()
	snap, seq := a.changedLocked()
	a.mu.Unlock()

	a.logger.Info("Tracking session stopped",
		zap.String("session_id", snap.SessionID),
		zap.String("message_id", snap.MessageID),
		zap.Int("elapsed_seconds", snap.ElapsedSeconds))
	a.notify(snap, seq)
	return true
}

// Reset stops any active session and returns to the pre-start state.
func (a *Adapter) Reset() {
	a.mu.Lock()
	if a.state.Active {
		a.deactivateLocked()
	}
	a.generation++
	a.state = initialSnapshot()
	snap, seq := a.changedLocked()
	a.mu.Unlock()

	a.notify(snap, seq)
}

// Snapshot returns a copy of the current state.
func (a *Adapter) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Wait blocks until the goroutines of every started run have exited.
func (a *Adapter) Wait() {
	a.wg.Wait()
}

func (a *Adapter) run(ctx context.Context, gen uint64, id string) {
	defer a.wg.Done()

	result, err := a.tracker.Track(ctx, id, func(r tracker.Result) {
		a.apply(gen, r)
	})
	a.finish(gen, result, err)
}

// apply maps one attempt result onto the session.
func (a *Adapter) apply(gen uint64, r tracker.Result) {
	a.mu.Lock()
	if gen != a.generation || !a.state.Active {
		a.mu.Unlock()
		return
	}

	a.state.Attempts++
	a.state.LastResult = &r
	a.state.Phase, a.state.Message = progress(r)
	snap, seq := a.changedLocked()
	a.mu.Unlock()

	a.notify(snap, seq)
}

// finish applies the value returned by Track.
func (a *Adapter) finish(gen uint64, result tracker.Result, err error) {
	a.mu.Lock()
	if gen != a.generation || !a.state.Active {
		a.mu.Unlock()
		return
	}

	a.deactivateLocked()
	if err != nil {
		a.state.Phase = PhaseFailed
		a.state.Message = fmt.Sprintf("Tracking error: %s", err)
	} else {
		a.state.LastResult = &result
		switch result.Status {
		case tracker.StatusDelivered:
			a.state.Phase, a.state.Message = PhaseDelivered, msgDelivered
		case tracker.StatusFailed:
			a.state.Phase, a.state.Message = PhaseFailed, msgFailed
		default:
			a.state.Phase = PhaseSearching
			a.state.Message = result.Error
			if a.state.Message == "" {
				a.state.Message = msgCompleted
			}
		}
	}
	snap, seq := a.changedLocked()
	a.mu.Unlock()

	logger := a.logger.With(
		zap.String("session_id", snap.SessionID),
		zap.String("message_id", snap.MessageID),
		zap.String("phase", string(snap.Phase)),
		zap.Int("elapsed_seconds", snap.ElapsedSeconds))
	if err != nil {
		logger.Error("Tracking session failed", zap.Error(err))
	} else {
		logger.Info("Tracking session finished", zap.String("message", snap.Message))
	}

	a.notify(snap, seq)
	if a.onFinish != nil {
		a.onFinish(snap)
	}
}

func (a *Adapter) countElapsed(ctx context.Context, gen uint64, startedAt time.Time) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			if gen != a.generation || !a.state.Active {
				a.mu.Unlock()
				return
			}
			a.state.ElapsedSeconds = int(a.now().Sub(startedAt) / time.Second)
			a.mu.Unlock()
		}
	}
}

// deactivateLocked ends the active run. Caller holds a.mu.
func (a *Adapter) deactivateLocked() {
	finishedAt := a.now()
	a.state.Active = false
	a.state.FinishedAt = &finishedAt
	if a.state.StartedAt != nil {
		a.state.ElapsedSeconds = int(finishedAt.Sub(*a.state.StartedAt) / time.Second)
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	metrics.ActiveSessions.Dec()
}

func (a *Adapter) snapshotLocked() Snapshot {
	s := a.state
	if s.LastResult != nil {
		r := *s.LastResult
		s.LastResult = &r
	}
	return s
}

// changedLocked records a state change and returns its snapshot and
// sequence number. Caller holds a.mu.
func (a *Adapter) changedLocked() (Snapshot, uint64) {
	a.seq++
	return a.snapshotLocked(), a.seq
}

func (a *Adapter) notify(s Snapshot, seq uint64) {
	if a.onChange == nil {
		return
	}
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()
	if seq <= a.delivered {
		return
	}
	a.delivered = seq
	a.onChange(s)
}

// progress maps an attempt result to a phase and a progress message.
func progress(r tracker.Result) (Phase, string) {
	if r.Record == nil {
		if r.Error != "" {
			return PhaseSearching, r.Error
		}
		return PhaseSearching, tracker.WaitingMessage
	}
	switch r.Status {
	case tracker.StatusDelivered:
		return PhaseDelivered, msgDelivered
	case tracker.StatusFailed:
		return PhaseFailed, msgFailed
	default:
		return PhaseFound, msgFound
	}
}
