package trackstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridge-tracker/pkg/tracker"
)

// TrackedMessageDao is a data access object that maps directly to the 'tracked_messages' table in PostgreSQL.
type TrackedMessageDao struct {
	bun.BaseModel  `bun:"table:tracked_messages,alias:tm"`
	ID             int64     `bun:"id,pk,autoincrement"`
	MessageID      string    `bun:"message_id,unique,notnull,type:varchar(130)"`
	SessionID      string    `bun:"session_id,notnull,type:varchar(36)"`
	Status         string    `bun:"status,notnull,type:varchar(20)"`
	DestTxHash     *string   `bun:"dest_tx_hash,type:varchar(130)"`
	Synthetic      bool      `bun:"synthetic,notnull,default:false"`
	Error          *string   `bun:"error,type:text"`
	Attempts       int       `bun:"attempts,notnull,default:0"`
	ElapsedSeconds int       `bun:"elapsed_seconds,notnull,default:0"`
	StartedAt      time.Time `bun:"started_at,notnull"`
	FinishedAt     time.Time `bun:"finished_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// toDao converts an Outcome to TrackedMessageDao.
func toDao(o *Outcome) *TrackedMessageDao {
	dao := &TrackedMessageDao{
		MessageID:      o.MessageID,
		SessionID:      o.SessionID,
		Status:         string(o.Status),
		Synthetic:      o.Synthetic,
		Attempts:       o.Attempts,
		ElapsedSeconds: o.ElapsedSeconds,
		StartedAt:      o.StartedAt,
		FinishedAt:     o.FinishedAt,
	}
	if o.DestTxHash != "" {
		dao.DestTxHash = &o.DestTxHash
	}
	if o.Error != "" {
		dao.Error = &o.Error
	}
	return dao
}

// toOutcome converts a TrackedMessageDao to Outcome.
func toOutcome(dao *TrackedMessageDao) *Outcome {
	o := &Outcome{
		MessageID:      dao.MessageID,
		SessionID:      dao.SessionID,
		Status:         tracker.Status(dao.Status),
		Synthetic:      dao.Synthetic,
		Attempts:       dao.Attempts,
		ElapsedSeconds: dao.ElapsedSeconds,
		StartedAt:      dao.StartedAt.UTC(),
		FinishedAt:     dao.FinishedAt.UTC(),
	}
	if dao.DestTxHash != nil {
		o.DestTxHash = *dao.DestTxHash
	}
	if dao.Error != nil {
		o.Error = *dao.Error
	}
	return o
}
