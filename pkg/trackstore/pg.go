package trackstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

const defaultListLimit = 100

var _ Store = (*pgStore)(nil)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the outcome store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) SaveOutcome(ctx context.Context, o *Outcome) error {
	dao := toDao(o)

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (message_id) DO UPDATE").
		Set("session_id = EXCLUDED.session_id").
		Set("status = EXCLUDED.status").
		Set("dest_tx_hash = EXCLUDED.dest_tx_hash").
		Set("synthetic = EXCLUDED.synthetic").
		Set("error = EXCLUDED.error").
		Set("attempts = EXCLUDED.attempts").
		Set("elapsed_seconds = EXCLUDED.elapsed_seconds").
		Set("started_at = EXCLUDED.started_at").
		Set("finished_at = EXCLUDED.finished_at").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save outcome for %s: %w", o.MessageID, err)
	}
	return nil
}

func (s *pgStore) GetOutcome(ctx context.Context, messageID string) (*Outcome, error) {
	dao := new(TrackedMessageDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("message_id = ?", messageID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}
	return toOutcome(dao), nil
}

// ListOutcomes returns the most recently finished outcomes first.
func (s *pgStore) ListOutcomes(ctx context.Context, limit int) ([]*Outcome, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var daos []TrackedMessageDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("finished_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}

	outcomes := make([]*Outcome, len(daos))
	for i := range daos {
		outcomes[i] = toOutcome(&daos[i])
	}
	return outcomes, nil
}
