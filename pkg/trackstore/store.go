// Package trackstore persists the final outcome of tracking sessions.
package trackstore

import (
	"context"
	"errors"
	"time"

	"github.com/chainsafe/bridge-tracker/pkg/tracker"
)

// ErrOutcomeNotFound is returned when no outcome is stored for a message id.
var ErrOutcomeNotFound = errors.New("outcome not found")

// Outcome is the final state of one tracking session.
type Outcome struct {
	MessageID      string         `json:"messageId"`
	SessionID      string         `json:"sessionId"`
	Status         tracker.Status `json:"status"`
	DestTxHash     string         `json:"destinationTxHash,omitempty"`
	Synthetic      bool           `json:"isSynthetic"`
	Error          string         `json:"error,omitempty"`
	Attempts       int            `json:"attempts"`
	ElapsedSeconds int            `json:"elapsedSeconds"`
	StartedAt      time.Time      `json:"startedAt"`
	FinishedAt     time.Time      `json:"finishedAt"`
}

// Store defines the interface for tracking outcome persistence.
// Saving an outcome for a message id that already has one replaces it.
type Store interface {
	SaveOutcome(ctx context.Context, o *Outcome) error
	GetOutcome(ctx context.Context, messageID string) (*Outcome, error)
	ListOutcomes(ctx context.Context, limit int) ([]*Outcome, error)
}
